// Package overlay holds the operator's reason groups and exclusions.
//
// An Overlay is plain session configuration. It is passed to the aggregation step on
// every recomputation and never consulted through package state.
package overlay

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/jeanthielis/relatorio-retidos/internal/model"
)

var (
	ErrEmptyGroupName       = errors.New("nome do grupo vazio")
	ErrEmptySelection       = errors.New("nenhum motivo selecionado")
	ErrGroupNotFound        = errors.New("grupo não encontrado")
	ErrReasonAlreadyGrouped = errors.New("motivo já pertence a outro grupo")
)

// Group named set of raw reasons reported as one
type Group struct {
	Name    string   `json:"name" toml:"name"`
	Reasons []string `json:"reasons" toml:"reasons"`
}

// State serializable form of an Overlay
type State struct {
	Groups   []Group  `json:"groups" toml:"groups"`
	Excluded []string `json:"excluded" toml:"excluded"`
}

// Overlay reason groups in creation order plus the exclusion set.
// Not safe for concurrent use.
type Overlay struct {
	groups   []Group
	owner    map[string]string // raw reason -> group name
	excluded map[string]struct{}
}

// New empty overlay
func New() *Overlay {
	return &Overlay{
		owner:    make(map[string]string),
		excluded: make(map[string]struct{}),
	}
}

// CreateGroup creates the group or replaces the members of an existing group with the
// same name. A reason owned by a different group is rejected. On error nothing changes.
func (o *Overlay) CreateGroup(name string, reasons []string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyGroupName
	}

	members := make([]string, 0, len(reasons))
	seen := make(map[string]struct{}, len(reasons))
	for _, r := range reasons {
		if r == "" {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		members = append(members, r)
	}
	if len(members) == 0 {
		return ErrEmptySelection
	}

	for _, r := range members {
		if owner, ok := o.owner[r]; ok && owner != name {
			return fmt.Errorf("%w: %q está em %q", ErrReasonAlreadyGrouped, r, owner)
		}
	}

	idx := o.indexOf(name)
	if idx >= 0 {
		for _, r := range o.groups[idx].Reasons {
			delete(o.owner, r)
		}
		o.groups[idx].Reasons = members
	} else {
		o.groups = append(o.groups, Group{Name: name, Reasons: members})
	}
	for _, r := range members {
		o.owner[r] = name
	}
	return nil
}

// RemoveGroup deletes a group, its reasons report under their own names again
func (o *Overlay) RemoveGroup(name string) error {
	idx := o.indexOf(strings.TrimSpace(name))
	if idx < 0 {
		return fmt.Errorf("%w: %q", ErrGroupNotFound, name)
	}
	for _, r := range o.groups[idx].Reasons {
		delete(o.owner, r)
	}
	o.groups = append(o.groups[:idx], o.groups[idx+1:]...)
	return nil
}

// Groups copy of the groups in creation order
func (o *Overlay) Groups() []Group {
	out := make([]Group, len(o.groups))
	for i, g := range o.groups {
		out[i] = Group{Name: g.Name, Reasons: append([]string(nil), g.Reasons...)}
	}
	return out
}

// ExcludeReasons replaces the exclusion set
func (o *Overlay) ExcludeReasons(reasons []string) {
	o.excluded = make(map[string]struct{}, len(reasons))
	for _, r := range reasons {
		o.excluded[r] = struct{}{}
	}
}

// Excluded sorted exclusion set
func (o *Overlay) Excluded() []string {
	out := make([]string, 0, len(o.excluded))
	for r := range o.excluded {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// IsExcluded reports whether rows with this raw reason are dropped
func (o *Overlay) IsExcluded(reason string) bool {
	_, ok := o.excluded[reason]
	return ok
}

// MapOrIdentity group name owning the reason, or the reason itself
func (o *Overlay) MapOrIdentity(reason string) string {
	if g, ok := o.owner[reason]; ok {
		return g
	}
	return reason
}

// Apply returns new rows without excluded reasons and with GroupedReason set.
// The input slice is not modified.
func (o *Overlay) Apply(rows []model.CanonicalRow) []model.CanonicalRow {
	out := make([]model.CanonicalRow, 0, len(rows))
	for _, r := range rows {
		if o.IsExcluded(r.Reason) {
			continue
		}
		r.GroupedReason = o.MapOrIdentity(r.Reason)
		out = append(out, r)
	}
	return out
}

// Snapshot current state
func (o *Overlay) Snapshot() State {
	return State{Groups: o.Groups(), Excluded: o.Excluded()}
}

// Restore replaces the overlay with a snapshot. The snapshot is validated as if its
// groups were created in order; an invalid snapshot leaves the overlay untouched.
func (o *Overlay) Restore(s State) error {
	next := New()
	for _, g := range s.Groups {
		if err := next.CreateGroup(g.Name, g.Reasons); err != nil {
			return fmt.Errorf("grupo %q: %w", g.Name, err)
		}
	}
	next.ExcludeReasons(s.Excluded)
	*o = *next
	return nil
}

// ExportTOML writes the current state as TOML
func (o *Overlay) ExportTOML(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(o.Snapshot()); err != nil {
		return fmt.Errorf("failed to encode overlay: %w", err)
	}
	return nil
}

// ImportTOML replaces the overlay with a state read from TOML
func (o *Overlay) ImportTOML(r io.Reader) error {
	var s State
	if err := toml.NewDecoder(r).Decode(&s); err != nil {
		return fmt.Errorf("failed to decode overlay: %w", err)
	}
	return o.Restore(s)
}

func (o *Overlay) indexOf(name string) int {
	for i, g := range o.groups {
		if g.Name == name {
			return i
		}
	}
	return -1
}
