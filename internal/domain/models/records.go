package models

import (
	"fmt"
	"time"
)

// Attribute enums for the three record stages. The original data carried
// these as free strings; they are closed here and validated at the store
// boundary so the engines can match exhaustively.

// IntakeNature distinguishes batch submissions from raw files.
type IntakeNature string

const (
	NatureRemise  IntakeNature = "REMISE"
	NatureFichier IntakeNature = "FICHIER"
)

// IntakeOrigin is the capture channel of an intake record.
type IntakeOrigin string

const (
	OriginWeb    IntakeOrigin = "WEB"
	OriginBranch IntakeOrigin = "AGENCE"
)

// RemiseStatus is the lifecycle state of an intake remise.
type RemiseStatus string

const (
	RemiseInProgress RemiseStatus = "EN_COURS"
	RemiseValidated  RemiseStatus = "VALIDEE"
	RemiseRejected   RemiseStatus = "REJETEE"
)

// ValueCode marks whether an intake record sits before or after settlement
// processing.
type ValueCode string

const (
	BeforeSettlementCode ValueCode = "AVANT_CTR"
	AfterSettlementCode  ValueCode = "APRES_CTR"
)

// ClearingStatus is the processing state of a clearing record.
type ClearingStatus string

const (
	ClearingProcessed ClearingStatus = "TRAITE"
	ClearingPending   ClearingStatus = "EN_ATTENTE"
	ClearingRejected  ClearingStatus = "REJETE"
)

// Direction is the flow direction of a clearing record.
type Direction string

const (
	DirectionInbound  Direction = "ENTRANT"
	DirectionOutbound Direction = "SORTANT"
)

// FileType is the capture mode of a clearing record.
type FileType string

const (
	FileElectronic FileType = "ELECTRONIQUE"
	FileManual     FileType = "MANUEL"
)

// Image digitization states for clearing records. Status 3 is the stuck
// state the detector alerts on.
const (
	ImageReceived  = 1
	ImageProcessed = 2
	ImageStuck     = 3
)

// IntakeRecord is one row of the intake stage.
type IntakeRecord struct {
	Reference string       `json:"reference"`
	Nature    IntakeNature `json:"nature"`
	Origin    IntakeOrigin `json:"origin"`
	Status    RemiseStatus `json:"status"`
	ValueCode ValueCode    `json:"value_code"`
	Validated bool         `json:"validated"`
	Generated bool         `json:"generated"`
	Amount    float64      `json:"amount"`
	CreatedAt time.Time    `json:"created_at"`
}

// ClearingRecord is one row of the clearing stage.
type ClearingRecord struct {
	Reference        string         `json:"reference"`
	Status           ClearingStatus `json:"status"`
	Direction        Direction      `json:"direction"`
	FileType         FileType       `json:"file_type"`
	NeedsVerify      bool           `json:"needs_verify"`
	SentToSettlement bool           `json:"sent_to_settlement"`
	BeforeSettlement bool           `json:"before_settlement"`
	ImageStatus      int            `json:"image_status"`
	Amount           float64        `json:"amount"`
	CreatedAt        time.Time      `json:"created_at"`
}

// SettlementRecord is one row of the settlement-confirmation stage.
// Settlement rows represent completed round-trips only.
type SettlementRecord struct {
	Reference   string    `json:"reference"`
	Balanced    bool      `json:"balanced"`
	Duplicate   bool      `json:"duplicate"`
	NotReceived bool      `json:"not_received"`
	Amount      float64   `json:"amount"`
	CreatedAt   time.Time `json:"created_at"`
}

// Validate rejects intake records with attribute values outside the closed sets.
func (r *IntakeRecord) Validate() error {
	switch r.Nature {
	case NatureRemise, NatureFichier, "":
	default:
		return fmt.Errorf("intake nature %q not recognized", r.Nature)
	}
	switch r.Origin {
	case OriginWeb, OriginBranch, "":
	default:
		return fmt.Errorf("intake origin %q not recognized", r.Origin)
	}
	switch r.Status {
	case RemiseInProgress, RemiseValidated, RemiseRejected, "":
	default:
		return fmt.Errorf("remise status %q not recognized", r.Status)
	}
	switch r.ValueCode {
	case BeforeSettlementCode, AfterSettlementCode, "":
	default:
		return fmt.Errorf("value code %q not recognized", r.ValueCode)
	}
	if r.Amount < 0 {
		return fmt.Errorf("intake amount must be non-negative, got %f", r.Amount)
	}
	return nil
}

// Validate rejects clearing records with attribute values outside the closed sets.
func (r *ClearingRecord) Validate() error {
	switch r.Status {
	case ClearingProcessed, ClearingPending, ClearingRejected, "":
	default:
		return fmt.Errorf("clearing status %q not recognized", r.Status)
	}
	switch r.Direction {
	case DirectionInbound, DirectionOutbound, "":
	default:
		return fmt.Errorf("clearing direction %q not recognized", r.Direction)
	}
	switch r.FileType {
	case FileElectronic, FileManual, "":
	default:
		return fmt.Errorf("clearing file type %q not recognized", r.FileType)
	}
	if r.ImageStatus < 0 || r.ImageStatus > ImageStuck {
		return fmt.Errorf("image status %d out of range", r.ImageStatus)
	}
	if r.Amount < 0 {
		return fmt.Errorf("clearing amount must be non-negative, got %f", r.Amount)
	}
	return nil
}

// Validate rejects settlement records with negative amounts.
func (r *SettlementRecord) Validate() error {
	if r.Amount < 0 {
		return fmt.Errorf("settlement amount must be non-negative, got %f", r.Amount)
	}
	return nil
}
