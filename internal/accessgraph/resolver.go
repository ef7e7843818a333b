package accessgraph

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Resolver computes the transitive set of sections a member may access by
// walking member → access groups → sections. The graph is strictly two-level,
// so no cycle detection or depth control is needed.
type Resolver struct {
	repo Repository
}

// NewResolver creates a Resolver over the given repository.
func NewResolver(repo Repository) *Resolver {
	return &Resolver{repo: repo}
}

// SectionsVisibleTo returns the union of sections granted to any of the
// member's access groups, de-duplicated by section id. A member in no group,
// or whose groups grant nothing, gets an empty set.
func (r *Resolver) SectionsVisibleTo(ctx context.Context, memberID uuid.UUID) ([]Section, error) {
	groups, err := r.repo.GroupsForMember(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("resolving groups for member: %w", err)
	}

	seen := make(map[uuid.UUID]struct{})
	visible := []Section{}
	for _, g := range groups {
		sections, err := r.repo.SectionsForGroup(ctx, g.ID)
		if err != nil {
			return nil, fmt.Errorf("resolving sections for group %s: %w", g.ID, err)
		}
		for _, s := range sections {
			if _, ok := seen[s.ID]; ok {
				continue
			}
			seen[s.ID] = struct{}{}
			visible = append(visible, s)
		}
	}

	return visible, nil
}
