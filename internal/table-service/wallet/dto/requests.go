package dto

type ReserveRequest struct {
	UserID      string `json:"userId"`
	AmountCents int64  `json:"amount_cents"`
	ExternalRef string `json:"external_ref"` // betId
}

type CommitRequest struct {
	UserID      string `json:"userId"`
	ExternalRef string `json:"external_ref"`
}

type RefundRequest struct {
	UserID      string `json:"userId"`
	ExternalRef string `json:"external_ref"`
}

type PayoutRequest struct {
	UserID      string `json:"userId"`
	ExternalRef string `json:"external_ref"`
	PayoutCents int64  `json:"payout_cents"` // só os ganhos; a stake volta junto
}
