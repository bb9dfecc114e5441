package assets

import "time"

// Asset is a tracked piece of IT inventory.
// The id is supplied at creation (inventory tag) and is immutable.
type Asset struct {
	ID       string      `json:"id" db:"id"`
	Name     string      `json:"name" db:"name"`
	Type     string      `json:"type" db:"type"`
	Location string      `json:"location" db:"location"`
	Status   AssetStatus `json:"status" db:"status"`
	IP       string      `json:"ip" db:"ip"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// AssetStatus literals are shown verbatim in the UI; keep them stable.
type AssetStatus string

const (
	StatusActive      AssetStatus = "Ativo"
	StatusMaintenance AssetStatus = "Manutenção"
	StatusRetired     AssetStatus = "Desativado"
)

func (s AssetStatus) Valid() bool {
	switch s {
	case StatusActive, StatusMaintenance, StatusRetired:
		return true
	default:
		return false
	}
}

// AssetHistory is an append-only trail of lifecycle actions per asset.
// Rows are never updated or deleted.
type AssetHistory struct {
	ID      string `json:"id" db:"id"`
	AssetID string `json:"assetId" db:"asset_id"`
	Action  string `json:"action" db:"action"`
	Details string `json:"details" db:"details"`

	Timestamp time.Time `json:"timestamp" db:"created_at"`
}

// History actions. The creation row is written in the same transaction as
// the asset itself.
const (
	HistoryActionCreated = "Criação"
	HistoryActionUpdated = "Atualização"
)
