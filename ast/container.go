package ast

import (
	"fmt"
	"reflect"

	"github.com/dhamidi/pegast/peg"
)

// Container is embedded by composite nodes. It owns the ordered list of the
// node's slots and claims them when the node is constructed.
//
// A container goes through assembly and construction exactly once; the slot
// list is dropped after the construction pass whether it succeeded or not.
type Container struct {
	members   []Member
	assembled bool
}

func (c *Container) container() *Container { return c }

// Construct claims every slot, last declared first. It stops at the first
// slot that fails and resets the slots claimed so far.
func (c *Container) Construct(r peg.Range, st *Stack, rep peg.ErrorReporter) bool {
	members := c.members
	c.members = nil
	for i := len(members) - 1; i >= 0; i-- {
		if !members[i].Construct(r, st, rep) {
			for _, m := range members[i:] {
				m.Reset()
			}
			return false
		}
	}
	return true
}

// composite is satisfied by every type that embeds Container.
type composite interface {
	Node
	container() *Container
}

// Declarer lets a composite node register its slots explicitly instead of
// having its exported slot fields discovered by reflection. Declare must
// register the slots in source order.
type Declarer interface {
	Declare(a *Assembly)
}

// Assembly collects the slots of one container while it is being set up.
// Only one container is assembled at a time, and an assembly cannot be
// reused once sealed.
type Assembly struct {
	owner   *Container
	members []Member
	sealed  bool
}

func (a *Assembly) add(m Member) {
	if a.sealed {
		panic(fmt.Sprintf("ast: %s registered after its container was assembled", KindOf(m)))
	}
	a.members = append(a.members, m)
}

func (a *Assembly) seal() {
	a.sealed = true
	required := 0
	for _, m := range a.members {
		if r, ok := m.(reserving); ok {
			r.reserve(required)
		}
		if _, ok := m.(singleRequired); ok {
			required++
		}
	}
	a.owner.members = a.members
	a.owner.assembled = true
}

// Assemble registers the slots of n with its embedded Container. Nodes that
// do not embed a Container are left alone. It is called by the binding glue
// right after a node is allocated; calling it again on the same node is an
// error.
func Assemble(n Node) error {
	c, ok := n.(composite)
	if !ok {
		return nil
	}
	owner := c.container()
	if owner.assembled {
		return fmt.Errorf("ast: %s assembled twice", KindOf(n))
	}
	a := &Assembly{owner: owner}
	if d, ok := n.(Declarer); ok {
		d.Declare(a)
	} else if err := discover(a, n); err != nil {
		return err
	}
	a.seal()
	return nil
}

var memberType = reflect.TypeFor[Member]()

// discover registers the exported fields of n that are slots, in field order.
func discover(a *Assembly, n Node) error {
	v := reflect.ValueOf(n)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("ast: %s must be a pointer to a struct to discover its slots", KindOf(n))
	}
	v = v.Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || f.Type == reflect.TypeFor[Container]() {
			continue
		}
		if !reflect.PointerTo(f.Type).Implements(memberType) {
			continue
		}
		v.Field(i).Addr().Interface().(Member).Register(a)
	}
	return nil
}
