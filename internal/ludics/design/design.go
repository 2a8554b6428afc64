// Package design models one participant's strategy: an ordered, append-only
// sequence of acts rooted at a locus, with the ludics legality rules applied
// at append time.
package design

import (
	apperrors "github.com/openagora/ludics/internal/platform/errors"
	"github.com/openagora/ludics/internal/ludics/act"
	"github.com/openagora/ludics/internal/ludics/locus"
)

// Design is one participant's ordered act sequence.
type Design struct {
	ID         string
	DialogueID string
	Owner      string
	RootLocus  string
	Acts       []act.Act
	HasDaimon  bool
	Version    int
}

// AppendOptions controls legality checks during an append.
type AppendOptions struct {
	// EnforceAlternation enables both the polarity alternation rule and the
	// locus-opening rule. Disabling it permits bootstrapping a design out of
	// order (e.g. when replaying acts from an external source).
	EnforceAlternation bool
}

// Validate checks the design's own identity fields.
func Validate(d Design) error {
	if d.Owner == "" {
		return apperrors.New(apperrors.CodeDesignEmptyOwner, "design owner cannot be empty")
	}
	if d.RootLocus == "" {
		return apperrors.New(apperrors.CodeDesignEmptyRoot, "design root locus cannot be empty")
	}
	return locus.Validate(d.RootLocus)
}

// OpenLoci returns the set of loci the design may legally play at: the root
// plus every child opened by a prior act's ramification.
func (d Design) OpenLoci() map[string]bool {
	open := map[string]bool{d.RootLocus: true}
	for _, a := range d.Acts {
		for _, child := range a.Openings() {
			open[child] = true
		}
	}
	return open
}

// LastProper returns the most recent proper act, if any.
func (d Design) LastProper() (act.Act, bool) {
	for i := len(d.Acts) - 1; i >= 0; i-- {
		if d.Acts[i].Kind == act.KindProper {
			return d.Acts[i], true
		}
	}
	return act.Act{}, false
}

// ActByID finds an act by id.
func (d Design) ActByID(id string) (act.Act, bool) {
	for _, a := range d.Acts {
		if a.ID == id {
			return a, true
		}
	}
	return act.Act{}, false
}

// Append returns a copy of the design extended with acts, or a structured
// error naming the first legality violation. History is never rewritten; a
// successful append bumps the version exactly once.
func Append(d Design, acts []act.Act, opts AppendOptions) (Design, error) {
	next := d
	next.Acts = make([]act.Act, len(d.Acts), len(d.Acts)+len(acts))
	copy(next.Acts, d.Acts)

	open := d.OpenLoci()
	lastProper, hasProper := d.LastProper()

	for _, a := range acts {
		if err := act.Validate(a); err != nil {
			return Design{}, err
		}

		if a.Kind == act.KindDaimon {
			next.HasDaimon = true
			next.Acts = append(next.Acts, a)
			continue
		}

		if next.HasDaimon {
			return Design{}, apperrors.New(apperrors.CodeDesignBranchClosed,
				"design already played daimon; no further proper acts allowed")
		}

		if opts.EnforceAlternation {
			if !open[a.Locus] {
				return Design{}, apperrors.WithMetadata(apperrors.CodeLocusNotOpened,
					"locus "+a.Locus+" was not opened by a prior act",
					map[string]string{"Path": a.Locus})
			}
			if hasProper && lastProper.Polarity == a.Polarity {
				return Design{}, apperrors.WithMetadata(apperrors.CodeIllegalAlternation,
					"consecutive proper acts must alternate polarity at "+a.Locus,
					map[string]string{"Path": a.Locus})
			}
		}

		for _, child := range a.Openings() {
			open[child] = true
		}
		lastProper, hasProper = a, true
		next.Acts = append(next.Acts, a)
	}

	next.Version = d.Version + 1
	return next, nil
}

// Delocate rewrites the whole design under a fresh locus namespace rooted at
// tag. Act order, count and every relative parent/child relationship are
// preserved; only path prefixes change. The clone gets newID and version 1.
func Delocate(d Design, tag, newID string) (Design, error) {
	if tag == "" {
		return Design{}, apperrors.New(apperrors.CodeDelocationEmptyTag,
			"delocation tag cannot be empty")
	}
	if err := locus.Validate(tag); err != nil {
		return Design{}, err
	}

	clone := d
	clone.ID = newID
	clone.RootLocus = tag
	clone.Version = 1
	clone.Acts = make([]act.Act, 0, len(d.Acts))

	for _, a := range d.Acts {
		shifted := a
		if a.Locus != "" {
			rewritten, ok := locus.RewritePrefix(a.Locus, d.RootLocus, tag)
			if !ok {
				return Design{}, apperrors.WithMetadata(apperrors.CodeInternal,
					"act locus "+a.Locus+" is outside the design root "+d.RootLocus,
					map[string]string{"Path": a.Locus})
			}
			shifted.Locus = rewritten
		}
		if j, ok := a.Meta[act.MetaJustifiedBy]; ok && j != "" {
			if rewritten, ok := locus.RewritePrefix(j, d.RootLocus, tag); ok {
				shifted.Meta = cloneMeta(a.Meta)
				shifted.Meta[act.MetaJustifiedBy] = rewritten
			}
		}
		clone.Acts = append(clone.Acts, shifted)
	}
	return clone, nil
}

// Concede appends a daimon marking that the owner yields the branch at
// locusPath: a constrained daimon-equivalent that keeps the conceded locus
// and expression on record.
func Concede(d Design, locusPath, expression string) (Design, error) {
	if d.HasDaimon {
		return Design{}, apperrors.New(apperrors.CodeDesignBranchClosed,
			"design already played daimon; nothing left to concede")
	}
	if locusPath != "" {
		if err := locus.Validate(locusPath); err != nil {
			return Design{}, err
		}
	}
	yield := act.Daimon(expression)
	yield.Locus = locusPath
	yield.Meta = map[string]string{act.MetaConcession: "true"}
	return Append(d, []act.Act{yield}, AppendOptions{})
}

func cloneMeta(meta map[string]string) map[string]string {
	out := make(map[string]string, len(meta))
	for k, v := range meta {
		out[k] = v
	}
	return out
}
