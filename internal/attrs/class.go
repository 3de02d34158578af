package attrs

import "fmt"

// DuplicateMemberError is returned by ClassAttributes.Enter for a name that
// is already a member.
type DuplicateMemberError struct {
	Class string
	Name  string
}

func (e *DuplicateMemberError) Error() string {
	return fmt.Sprintf("duplicate member %s in class %s", e.Name, e.Class)
}

// ClassAttributes acts as a named scope for Class.member lookups. It is
// independent of the lexical scope stack.
type ClassAttributes struct {
	Name string

	members map[string]Attributes
	order   []string
}

func NewClass(name string) *ClassAttributes {
	return &ClassAttributes{
		Name:    name,
		members: make(map[string]Attributes),
	}
}

func (*ClassAttributes) isAttributes() {}
func (c *ClassAttributes) String() string {
	return c.Name
}

func (c *ClassAttributes) Has(name string) bool {
	_, ok := c.members[name]
	return ok
}

// Enter adds a member.
func (c *ClassAttributes) Enter(name string, a Attributes) error {
	if c.Has(name) {
		return &DuplicateMemberError{Class: c.Name, Name: name}
	}
	c.members[name] = a
	c.order = append(c.order, name)
	return nil
}

func (c *ClassAttributes) Lookup(name string) (Attributes, bool) {
	a, ok := c.members[name]
	return a, ok
}

// Members returns member names in insertion order.
func (c *ClassAttributes) Members() []string {
	return c.order
}
