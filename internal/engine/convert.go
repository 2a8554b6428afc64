package engine

import (
	"context"
	"strings"

	"github.com/openagora/ludics/internal/ludics/act"
	"github.com/openagora/ludics/internal/ludics/design"
	"github.com/openagora/ludics/internal/storage"

	apperrors "github.com/openagora/ludics/internal/platform/errors"
)

const ramificationSep = ","

func joinRamification(selectors []string) string {
	return strings.Join(selectors, ramificationSep)
}

func splitRamification(value string) []string {
	if value == "" {
		return nil
	}
	return strings.Split(value, ramificationSep)
}

func actToRecord(a act.Act, designID string, seq int) storage.ActRecord {
	return storage.ActRecord{
		ID:           a.ID,
		DesignID:     designID,
		Seq:          seq,
		Kind:         a.Kind.String(),
		Polarity:     a.Polarity.String(),
		LocusPath:    a.Locus,
		Ramification: joinRamification(a.Ramification),
		Expression:   a.Expression,
		IsAdditive:   a.IsAdditive,
		Meta:         a.Meta,
	}
}

func recordToAct(record storage.ActRecord) (act.Act, error) {
	kind, ok := act.ParseKind(record.Kind)
	if !ok {
		return act.Act{}, apperrors.WithMetadata(apperrors.CodeActInvalidKind,
			"stored act kind "+record.Kind+" is not recognized",
			map[string]string{"ActID": record.ID})
	}
	out := act.Act{
		ID:           record.ID,
		Kind:         kind,
		Locus:        record.LocusPath,
		Ramification: splitRamification(record.Ramification),
		Expression:   record.Expression,
		IsAdditive:   record.IsAdditive,
		Meta:         record.Meta,
	}
	if kind == act.KindProper {
		polarity, ok := act.ParsePolarity(record.Polarity)
		if !ok {
			return act.Act{}, apperrors.WithMetadata(apperrors.CodeActInvalidPolarity,
				"stored act polarity "+record.Polarity+" is not recognized",
				map[string]string{"ActID": record.ID})
		}
		out.Polarity = polarity
	}
	return out, nil
}

// loadDesign materializes a stored design header and act sequence into the
// domain type.
func (e *Engine) loadDesign(ctx context.Context, designID string) (design.Design, storage.Design, error) {
	header, err := e.store.GetDesign(ctx, designID)
	if err != nil {
		return design.Design{}, storage.Design{}, mapStoreErr(err, "load design "+designID)
	}
	records, err := e.store.ActsForDesign(ctx, designID)
	if err != nil {
		return design.Design{}, storage.Design{}, mapStoreErr(err, "load acts for design "+designID)
	}

	d := design.Design{
		ID:         header.ID,
		DialogueID: header.DialogueID,
		Owner:      header.Owner,
		RootLocus:  header.RootLocus,
		HasDaimon:  header.HasDaimon,
		Version:    header.Version,
		Acts:       make([]act.Act, 0, len(records)),
	}
	for _, record := range records {
		a, err := recordToAct(record)
		if err != nil {
			return design.Design{}, storage.Design{}, err
		}
		d.Acts = append(d.Acts, a)
	}
	return d, header, nil
}
