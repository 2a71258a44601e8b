package alert

import (
	"context"
	"fmt"
	"strings"
	"time"

	"semaforo-srv/internal/model"
)

const (
	// DedupWindow is the rolling window inside which at most one live alert
	// may exist per dedup key.
	DedupWindow = 24 * time.Hour

	// DefaultAlertTTL bounds how long an undelivered alert stays
	// reschedulable before it is considered expired.
	DefaultAlertTTL = 7 * 24 * time.Hour
)

// redChecklist is the fixed list of recommended actions attached to every
// red alert body.
var redChecklist = []string{
	"Verificar las fechas de vigencia de la cuña",
	"Confirmar el estado del contrato con el cliente",
	"Revisar la parrilla de programación asignada",
	"Contactar al responsable comercial de la cuenta",
}

// EvaluateInput bundles everything the policy needs to decide on an alert.
type EvaluateInput struct {
	Record       model.StatusRecord
	Snapshot     model.CampaignSnapshot
	Config       model.ThresholdConfig
	Transitioned bool
	Recipients   model.Recipients
	Now          time.Time
}

// Evaluate decides whether the computed status warrants an alert and, if
// so, drafts it. Pure apart from the injected recent-alert lookup.
func Evaluate(ctx context.Context, in EvaluateInput, recent RecentAlertLookup) (bool, Draft, error) {
	rec := in.Record

	if !rec.AlertRequired {
		return false, Draft{}, nil
	}

	// An alert was already sent for this evaluation window; the flag is
	// only reset when the color transitions again.
	if rec.AlertSent && !in.Transitioned {
		return false, Draft{}, nil
	}

	if in.Config.AlertOnlyOnWorsening && !(in.Transitioned && rec.Worsened()) {
		return false, Draft{}, nil
	}

	dedupKey := model.DedupKeyFor(rec.CampaignID, typeFor(in))
	live, err := recent(ctx, dedupKey, DedupWindow)
	if err != nil {
		return false, Draft{}, err
	}
	if live {
		return false, Draft{}, nil
	}

	alertType := typeFor(in)
	expires := in.Now.Add(DefaultAlertTTL)
	campaignID := rec.CampaignID

	draft := Draft{
		CampaignID:   &campaignID,
		DedupKey:     dedupKey,
		Type:         alertType,
		Severity:     severityFor(alertType, rec),
		Title:        buildTitle(in.Snapshot, rec),
		Body:         buildBody(in.Snapshot, rec),
		ScheduledFor: in.Now,
		MaxRetries:   model.DefaultMaxRetries,
		ExpiresAt:    &expires,
		Recipients:   in.Recipients,
	}
	return true, draft, nil
}

// typeFor classifies the condition, most specific first.
func typeFor(in EvaluateInput) model.AlertType {
	rec := in.Record
	switch {
	case in.Snapshot.State.NeedsReview() && (rec.CurrentColor == model.ColorYellow || rec.CurrentColor == model.ColorRed):
		return model.AlertTypeReviewNeeded
	case rec.CurrentColor == model.ColorRed:
		return model.AlertTypeCriticalState
	case rec.CurrentColor == model.ColorYellow && rec.DaysRemaining <= 3:
		return model.AlertTypeUpcomingExpiry
	default:
		return model.AlertTypeChangeOfState
	}
}

func severityFor(t model.AlertType, rec model.StatusRecord) model.AlertSeverity {
	switch t {
	case model.AlertTypeCriticalState:
		if rec.Priority == model.PriorityCritical {
			return model.SeverityCritical
		}
		return model.SeverityError
	case model.AlertTypeUpcomingExpiry, model.AlertTypeReviewNeeded:
		return model.SeverityWarning
	default:
		return model.SeverityInfo
	}
}

func buildTitle(snap model.CampaignSnapshot, rec model.StatusRecord) string {
	name := snap.Name
	if name == "" {
		name = snap.ID
	}
	return fmt.Sprintf("Cuña %q en estado %s", name, colorLabel(rec.CurrentColor))
}

// buildBody renders the fixed alert template: identifying fields, color,
// reason and the signed days-remaining phrase; red alerts append the
// recommended-actions checklist.
func buildBody(snap model.CampaignSnapshot, rec model.StatusRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Cuña: %s (%s)\n", snap.Name, snap.ID)
	fmt.Fprintf(&b, "Estado de ciclo: %s\n", snap.State)
	fmt.Fprintf(&b, "Semáforo: %s\n", colorLabel(rec.CurrentColor))
	if rec.Reason != "" {
		fmt.Fprintf(&b, "Motivo: %s\n", rec.Reason)
	}
	if rec.DaysRemaining < 0 {
		fmt.Fprintf(&b, "Vigencia: vencida hace %dd\n", -rec.DaysRemaining)
	} else {
		fmt.Fprintf(&b, "Vigencia: vence en %dd\n", rec.DaysRemaining)
	}

	if rec.CurrentColor == model.ColorRed {
		b.WriteString("\nAcciones recomendadas:\n")
		for _, item := range redChecklist {
			fmt.Fprintf(&b, "- %s\n", item)
		}
	}

	return b.String()
}

func colorLabel(c model.Color) string {
	switch c {
	case model.ColorGreen:
		return "verde"
	case model.ColorYellow:
		return "amarillo"
	case model.ColorRed:
		return "rojo"
	default:
		return "gris"
	}
}
