package engine

import (
	"context"

	"github.com/openagora/ludics/internal/ludics/act"
	"github.com/openagora/ludics/internal/ludics/chronicle"
	"github.com/openagora/ludics/internal/ludics/interaction"
	"go.opentelemetry.io/otel/attribute"

	apperrors "github.com/openagora/ludics/internal/platform/errors"
)

// StepRequest parameterizes one interaction run between two stored designs.
type StepRequest struct {
	PosDesignID   string
	NegDesignID   string
	StartPosActID string
	MaxPairs      int
	Mode          string
}

// StepInteraction loads both designs and runs them against each other. The
// returned trace carries the verdict, the matched pairs and the decisive
// subset of the pair indices.
func (e *Engine) StepInteraction(ctx context.Context, req StepRequest) (interaction.Trace, error) {
	if err := e.ready(); err != nil {
		return interaction.Trace{}, err
	}
	if req.MaxPairs < 0 {
		return interaction.Trace{}, apperrors.New(apperrors.CodeStepFuelNonPositive,
			"max pairs cannot be negative")
	}
	mode, err := interaction.ParseMode(req.Mode)
	if err != nil {
		return interaction.Trace{}, err
	}

	ctx, span := e.tracer.Start(ctx, "engine.StepInteraction")
	defer span.End()
	span.SetAttributes(
		attribute.String("ludics.pos_design_id", req.PosDesignID),
		attribute.String("ludics.neg_design_id", req.NegDesignID),
		attribute.String("ludics.mode", string(mode)),
	)

	pos, _, err := e.loadDesign(ctx, req.PosDesignID)
	if err != nil {
		return interaction.Trace{}, err
	}
	neg, _, err := e.loadDesign(ctx, req.NegDesignID)
	if err != nil {
		return interaction.Trace{}, err
	}

	trace, err := interaction.Step(pos, neg, interaction.StepOptions{
		StartPosActID: req.StartPosActID,
		MaxPairs:      req.MaxPairs,
		Mode:          mode,
	})
	if err != nil {
		return interaction.Trace{}, err
	}

	trace.DecisiveIndices = chronicle.DecisiveChain(trace.Pairs, justifierMap(pos.Acts), "")
	span.SetAttributes(
		attribute.String("ludics.status", trace.Status.String()),
		attribute.Int("ludics.pairs", len(trace.Pairs)),
	)
	return trace, nil
}

// PreflightComposition statically checks whether two stored designs compose.
func (e *Engine) PreflightComposition(ctx context.Context, posDesignID, negDesignID, mode string) (interaction.CompositionCheck, error) {
	if err := e.ready(); err != nil {
		return interaction.CompositionCheck{}, err
	}
	parsed, err := interaction.ParseMode(mode)
	if err != nil {
		return interaction.CompositionCheck{}, err
	}

	pos, _, err := e.loadDesign(ctx, posDesignID)
	if err != nil {
		return interaction.CompositionCheck{}, err
	}
	neg, _, err := e.loadDesign(ctx, negDesignID)
	if err != nil {
		return interaction.CompositionCheck{}, err
	}
	return interaction.Preflight(pos, neg, parsed), nil
}

// ComputeDecisiveChain recomputes the decisive pair indices of a finished
// trace against the stored positive design, seeded by an optional locus hint.
func (e *Engine) ComputeDecisiveChain(ctx context.Context, posDesignID string, pairs []interaction.Pair, hint string) ([]int, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}

	pos, _, err := e.loadDesign(ctx, posDesignID)
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(pos.Acts))
	for _, a := range pos.Acts {
		known[a.ID] = true
	}
	for _, pair := range pairs {
		if !known[pair.PosActID] {
			return nil, apperrors.WithMetadata(apperrors.CodeTraceActMissing,
				"trace act "+pair.PosActID+" is not part of design "+posDesignID,
				map[string]string{"ActID": pair.PosActID})
		}
	}
	return chronicle.DecisiveChain(pairs, justifierMap(pos.Acts), hint), nil
}

// justifierMap collects the explicit justifiedBy links of a design's acts.
func justifierMap(acts []act.Act) map[string]string {
	out := map[string]string{}
	for _, a := range acts {
		if j, ok := a.Meta[act.MetaJustifiedBy]; ok && j != "" {
			out[a.ID] = j
		}
	}
	return out
}
