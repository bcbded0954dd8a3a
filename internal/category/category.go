package category

// Category is one of the fixed spending classifications. The set is closed:
// values are declared here and nowhere else.
type Category int

const (
	Supermarket Category = iota
	EatingOut
	WorkCatering
	MandatoryBills
	Services
	Savings
	Transport
	TransfersFromFriends
	Pay
	Other
)

type definition struct {
	name        string
	description string
}

// definitions is indexed by Category. Order here is prompt order.
var definitions = [...]definition{
	Supermarket:          {"SUPERMARKET", "british supermarkets"},
	EatingOut:            {"EATING_OUT", "names of restaurants"},
	WorkCatering:         {"WORK_CATERING", "only T N S catering"},
	MandatoryBills:       {"MANDATORY_BILLS", "insurance or rent"},
	Services:             {"SERVICES", "Spotify or Proton or Apple"},
	Savings:              {"SAVINGS", "Trading 212 or LUKE M A Parkin or 'FROM A/C'"},
	Transport:            {"TRANSPORT", "stagecoach or trains"},
	TransfersFromFriends: {"TRANSFERS_FROM_FRIENDS", "where people's names are listed at the start"},
	Pay:                  {"PAY", "pay from Arm"},
	Other:                {"OTHER", "if it does not fit in any previous categories"},
}

var byName = func() map[string]Category {
	m := make(map[string]Category, len(definitions))
	for i, d := range definitions {
		m[d.name] = Category(i)
	}
	return m
}()

// All returns every category in declaration order.
func All() []Category {
	all := make([]Category, len(definitions))
	for i := range definitions {
		all[i] = Category(i)
	}
	return all
}

// ID returns the stable numeric identifier.
func (c Category) ID() int { return int(c) }

// Name returns the symbolic name, e.g. "SUPERMARKET".
func (c Category) Name() string {
	if !c.valid() {
		return definitions[Other].name
	}
	return definitions[c].name
}

// Description returns the text used to prime the classification backend.
func (c Category) Description() string {
	if !c.valid() {
		return definitions[Other].description
	}
	return definitions[c].description
}

func (c Category) String() string { return c.Name() }

func (c Category) valid() bool {
	return c >= 0 && int(c) < len(definitions)
}

// Parse matches name exactly (case-sensitive) against the symbolic names.
func Parse(name string) (Category, bool) {
	c, ok := byName[name]
	return c, ok
}

// IsKnown reports whether name is one of the symbolic names.
func IsKnown(name string) bool {
	_, ok := byName[name]
	return ok
}

// Resolve maps any label to a category. Anything that is not an exact
// symbolic name, including the empty string, resolves to Other.
func Resolve(name string) Category {
	if c, ok := byName[name]; ok {
		return c
	}
	return Other
}
