package components

import (
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
)

// ContactsData remembers which volumes a driver overlapped last tick so
// enter and stay can be told apart.
type ContactsData struct {
	Touching map[*resolv.Object]bool
}

var Contacts = donburi.NewComponentType[ContactsData]()

// Reset forgets all remembered contacts.
func (c *ContactsData) Reset() {
	c.Touching = make(map[*resolv.Object]bool)
}
