package domain

// Settings is the singleton configuration record maintained through the
// admin panel. Every component that needs a section re-reads it on demand,
// so configuration changes take effect on the next request.
type Settings struct {
	Store   StoreSettings   `json:"store"`
	Email   EmailSettings   `json:"email"`
	Payment PaymentSettings `json:"payment"`
	Offers  []Offer         `json:"offers,omitempty"`
}

type StoreSettings struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

type EmailSettings struct {
	SMTPHost string `json:"smtpHost"`
	SMTPPort int    `json:"smtpPort"`
	Username string `json:"username"`
	Password string `json:"password"`
	From     string `json:"from"`
}

type PaymentSettings struct {
	KeyID     string `json:"keyId"`
	KeySecret string `json:"keySecret"`
}

// Offer is a promotional discount. Either CouponCode is set (applied on
// explicit code entry) or the automatic qualification fields are.
type Offer struct {
	Label           string   `json:"label"`
	Image           string   `json:"image,omitempty"`
	CouponCode      string   `json:"couponCode,omitempty"`
	MinOrderValue   int64    `json:"minOrderValue,omitempty"`
	MinItems        int      `json:"minItems,omitempty"`
	CategoryIDs     []string `json:"categoryIds,omitempty"`
	ProductIDs      []string `json:"productIds,omitempty"`
	DiscountPercent int      `json:"discountPercent"`
}

// Automatic reports whether the offer applies without a coupon code.
func (o Offer) Automatic() bool { return o.CouponCode == "" }
