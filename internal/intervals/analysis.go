package intervals

import (
	"context"
	"encoding/json"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/aatrey56/fitness-mcp/internal/apierr"
)

// Reasons a performance-analysis field can be absent.
const (
	ReasonNotAvailable = "not_available" // the athlete has no such data (403/404)
	ReasonFailed       = "failed"
)

// Field is the outcome of one best-effort sub-call. A Field with neither a
// Value nor an Err was never requested.
type Field[T any] struct {
	Value *T
	Err   error
}

// Requested reports whether the sub-call was made.
func (f Field[T]) Requested() bool { return f.Value != nil || f.Err != nil }

func fill[T any](ctx context.Context, f *Field[T], get func(context.Context) (*T, error)) {
	f.Value, f.Err = get(ctx)
	if f.Err != nil {
		f.Value = nil
	}
}

// Unavailable explains why a field is missing from an analysis.
type Unavailable struct {
	Reason string `json:"reason"`
	Error  string `json:"error"`
}

func unavailable(err error) Unavailable {
	reason := ReasonFailed
	if errors.Is(err, apierr.ErrNotFound) || errors.Is(err, apierr.ErrForbidden) {
		reason = ReasonNotAvailable
	}
	return Unavailable{Reason: reason, Error: err.Error()}
}

// PerformanceAnalysis bundles the athlete's curves and, for one activity,
// its best efforts. Each part is fetched independently; a failed part is
// reported in Unavailable and never fails the whole analysis.
type PerformanceAnalysis struct {
	PowerCurve  Field[PowerCurve]
	HRCurve     Field[HRCurve]
	PaceCurve   Field[PaceCurve]
	BestEfforts Field[BestEfforts]
}

// Unavailable lists the requested parts that could not be fetched, keyed by
// their JSON field name.
func (a *PerformanceAnalysis) Unavailable() map[string]Unavailable {
	out := map[string]Unavailable{}
	add := func(name string, err error) {
		if err != nil {
			out[name] = unavailable(err)
		}
	}
	add("power_curve", a.PowerCurve.Err)
	add("hr_curve", a.HRCurve.Err)
	add("pace_curve", a.PaceCurve.Err)
	add("best_efforts", a.BestEfforts.Err)
	return out
}

func (a *PerformanceAnalysis) MarshalJSON() ([]byte, error) {
	type view struct {
		PowerCurve  *PowerCurve            `json:"power_curve,omitempty"`
		HRCurve     *HRCurve               `json:"hr_curve,omitempty"`
		PaceCurve   *PaceCurve             `json:"pace_curve,omitempty"`
		BestEfforts *BestEfforts           `json:"best_efforts,omitempty"`
		Unavailable map[string]Unavailable `json:"unavailable,omitempty"`
	}
	return json.Marshal(view{
		PowerCurve:  a.PowerCurve.Value,
		HRCurve:     a.HRCurve.Value,
		PaceCurve:   a.PaceCurve.Value,
		BestEfforts: a.BestEfforts.Value,
		Unavailable: a.Unavailable(),
	})
}

// PerformanceAnalysis fetches the power, heart rate and pace curves and, when
// activityID is set, that activity's best efforts. The sub-calls run
// concurrently and do not cancel one another.
func (c *Client) PerformanceAnalysis(ctx context.Context, sport, activityID string) *PerformanceAnalysis {
	a := &PerformanceAnalysis{}
	var g errgroup.Group
	g.Go(func() error {
		fill(ctx, &a.PowerCurve, func(ctx context.Context) (*PowerCurve, error) { return c.PowerCurve(ctx, sport) })
		return nil
	})
	g.Go(func() error {
		fill(ctx, &a.HRCurve, func(ctx context.Context) (*HRCurve, error) { return c.HRCurve(ctx, sport) })
		return nil
	})
	g.Go(func() error {
		fill(ctx, &a.PaceCurve, func(ctx context.Context) (*PaceCurve, error) { return c.PaceCurve(ctx, sport) })
		return nil
	})
	if activityID != "" {
		g.Go(func() error {
			fill(ctx, &a.BestEfforts, func(ctx context.Context) (*BestEfforts, error) { return c.BestEfforts(ctx, activityID) })
			return nil
		})
	}
	_ = g.Wait()
	return a
}
