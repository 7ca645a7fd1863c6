package models

import "time"

// Severity grades a detected anomaly.
type Severity string

const (
	SeverityCritical  Severity = "CRITICAL"
	SeverityAlert     Severity = "ALERT"
	SeverityAttention Severity = "ATTENTION"
	SeverityInfo      Severity = "INFO"
)

// Anomaly codes. The wire values keep the identifiers the back office
// already keys its procedures on.
type AnomalyCode string

const (
	CodeCountImbalance     AnomalyCode = "EQUILIBRAGE_NOMBRE"
	CodeAmountImbalance    AnomalyCode = "EQUILIBRAGE_MONTANT"
	CodeRecordsNotReceived AnomalyCode = "FICHIERS_NON_PARVENUES"
	CodeVerifyBacklog      AnomalyCode = "CHEQUES_A_VERIFIER"
	CodeDuplicateRemises   AnomalyCode = "REMISES_DOUBLES"
	CodeStuckImages        AnomalyCode = "IMAGES_STATUT3"
	CodeSystemError        AnomalyCode = "SYSTEM_ERROR"
)

// Anomaly is one detected rule violation or risk condition. Anomalies are
// generated per detection run and not persisted by the engine.
type Anomaly struct {
	Code              AnomalyCode `json:"code"`
	Description       string      `json:"description"`
	Severity          Severity    `json:"severity"`
	DetectedAt        time.Time   `json:"detected_at"`
	RecommendedAction string      `json:"recommended_action"`
}

// NewAnomaly stamps the detection time and resolves the recommended action.
func NewAnomaly(code AnomalyCode, description string, severity Severity) Anomaly {
	return Anomaly{
		Code:              code,
		Description:       description,
		Severity:          severity,
		DetectedAt:        time.Now(),
		RecommendedAction: RecommendedAction(code),
	}
}

// Priority maps severity to the sort rank used for ordering, most severe
// first. Unknown severities sort last.
func (a Anomaly) Priority() int {
	switch a.Severity {
	case SeverityCritical:
		return 1
	case SeverityAlert:
		return 2
	case SeverityAttention:
		return 3
	case SeverityInfo:
		return 4
	default:
		return 5
	}
}

// RecommendedAction is a total lookup: every defined code maps to an
// operator action and unknown codes fall back to a generic one.
func RecommendedAction(code AnomalyCode) string {
	switch code {
	case CodeCountImbalance:
		return "Verifier la coherence des nombres entre intake, clearing et settlement"
	case CodeAmountImbalance:
		return "Controler les montants et identifier les ecarts"
	case CodeRecordsNotReceived:
		return "Investiguer les fichiers en attente et relancer si necessaire"
	case CodeVerifyBacklog:
		return "Proceder a la verification manuelle des cheques"
	case CodeDuplicateRemises:
		return "Identifier les remises soumises en double et annuler les doublons"
	case CodeStuckImages:
		return "Traiter les images bloquees en statut 3"
	case CodeSystemError:
		return "Consulter les journaux applicatifs et verifier les stores"
	default:
		return "Analyser l'anomalie et prendre les mesures appropriees"
	}
}
