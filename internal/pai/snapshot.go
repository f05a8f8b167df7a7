package pai

import "fmt"

// TheirsSnapshot is the serializable form of one completed theirs-side
// intersection entry: a group element the peer has fully blinded, which
// this side has blinded once more. It carries no LocalFragmentInfo because
// that belongs to the submitting side's own authorisation, never the
// peer's (spec.md §4.6 Data Model).
type TheirsSnapshot struct {
	Group       []byte
	IsSecondary bool
}

// Snapshot captures every complete theirs-side entry, in bind order, so a
// resumed session can seed a fresh Finder without re-receiving binds the
// peer already sent last connection. Incomplete entries and the whole
// ours-side store are deliberately excluded: ours-side state is tied to
// locally submitted ReadAuthorisation values the application must resubmit
// on resume regardless (spec.md §1 Non-goals: authorisation sourcing is
// application-owned).
func (f *Finder) Snapshot() []TheirsSnapshot {
	var out []TheirsSnapshot
	f.theirs.For(func(_ uint64, te intersectionEntry) bool {
		if !te.isComplete {
			return true
		}
		out = append(out, TheirsSnapshot{
			Group:       f.scheme.EncodeGroupMember(te.element),
			IsSecondary: te.isSecondary,
		})
		return true
	})
	return out
}

// Restore re-binds a prior session's theirs-side entries into a freshly
// constructed Finder, in the same order they were captured, so the handle
// numbering Snapshot observed is reproduced exactly (handle.Store assigns
// strictly sequentially from 0, per its own invariant).
func (f *Finder) Restore(snaps []TheirsSnapshot) error {
	for i, snap := range snaps {
		g, err := f.scheme.DecodeGroupMember(snap.Group)
		if err != nil {
			return fmt.Errorf("pai: restore theirs snapshot %d: %w", i, err)
		}
		f.theirs.Bind(intersectionEntry{element: g, isComplete: true, isSecondary: snap.IsSecondary})
	}
	return nil
}
