package dto

import (
	"time"

	"realty/shared/constant"
	"realty/shared/model"
	"realty/shared/timezone"
)

// Metadata is the audit block embedded in every resource response. Times are
// rendered in the application timezone; unset values are omitted.
type Metadata struct {
	CreatedAt  string `json:"created_at,omitempty"`
	ModifiedAt string `json:"modified_at,omitempty"`
	CreatedBy  string `json:"created_by,omitempty"`
	ModifiedBy string `json:"modified_by,omitempty"`
}

func (m *Metadata) FromModel(src model.Metadata) {
	*m = Metadata{
		CreatedAt:  stamp(src.CreatedAt),
		ModifiedAt: stamp(src.ModifiedAt),
		CreatedBy:  src.CreatedBy,
		ModifiedBy: src.ModifiedBy,
	}
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return timezone.Format(t, constant.DateFormat)
}
