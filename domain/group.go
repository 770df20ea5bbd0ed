// Package domain contains core concepts of the bulletin board.
// This file defines Group identities and the fixed group catalog.
// No runtime, network, or UI logic should be added here.
package domain

import (
	"fmt"
	"strconv"
	"strings"
)

type GroupID string

// Group is a named broadcast domain. Immutable after creation.
type Group struct {
	ID   GroupID
	Name string
}

// Catalog is the fixed set of groups, built once before the acceptor starts.
// It never changes afterwards, so reads need no locking.
type Catalog struct {
	groups []Group
}

// NewCatalog builds the public group plus privateCount private groups.
// The public group always comes first with id "0"; private groups get
// ids "1".. and lettered names ("Group A", "Group B", ...).
func NewCatalog(privateCount int) *Catalog {
	groups := make([]Group, 0, privateCount+1)
	groups = append(groups, Group{ID: "0", Name: "Public"})
	for i := 0; i < privateCount; i++ {
		groups = append(groups, Group{
			ID:   GroupID(strconv.Itoa(i + 1)),
			Name: fmt.Sprintf("Group %c", rune('A'+i)),
		})
	}
	return &Catalog{groups: groups}
}

// Public returns the one group every session joins on connect.
func (c *Catalog) Public() Group {
	return c.groups[0]
}

// List returns the catalog in creation order, public group first.
// Callers must not mutate the returned slice.
func (c *Catalog) List() []Group {
	return c.groups
}

// Find resolves a group by exact id or case-insensitive name.
func (c *Catalog) Find(token string) (Group, bool) {
	for _, group := range c.groups {
		if string(group.ID) == token || strings.EqualFold(group.Name, token) {
			return group, true
		}
	}
	return Group{}, false
}
