package domain

type Review struct {
	ID               string  `db:"id" json:"id"`
	UserID           string  `db:"user_id" json:"user"`
	ProductID        string  `db:"product_id" json:"product"`
	Rating           int     `db:"rating" json:"rating"`
	Title            string  `db:"title" json:"title"`
	Comment          string  `db:"comment" json:"comment"`
	IsApproved       bool    `db:"is_approved" json:"isApproved"`
	IsModerated      bool    `db:"is_moderated" json:"isModerated"`
	AdminResponse    string  `db:"admin_response" json:"adminResponse,omitempty"`
	AdminRespondedBy string  `db:"admin_responded_by" json:"adminRespondedBy,omitempty"`
	AdminRespondedAt *string `db:"admin_responded_at" json:"adminRespondedAt,omitempty"`
	CreatedAt        string  `db:"created_at" json:"createdAt"`
	UpdatedAt        string  `db:"updated_at" json:"updatedAt"`
}
