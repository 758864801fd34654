package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Cashback  Category = "cashback"
	Referral  Category = "referral"
	Freelance Category = "freelance"
	Salary    Category = "salary"
	Business  Category = "business"
	Passive   Category = "passive"
)

const (
	Student    Occupation = "student"
	Freelancer Occupation = "freelancer"
	Employee   Occupation = "employee"
	Owner      Occupation = "business"
	Other      Occupation = "other"
)

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

type (
	// Category is the fixed income type an earning is filed under.
	Category string

	Occupation string

	Theme string

	Earning struct {
		ID        string     `json:"id"`
		Amount    Amount     `json:"amount"`
		Category  Category   `json:"category"`
		Date      Date       `json:"date"`
		Source    string     `json:"source,omitempty"`
		Notes     string     `json:"notes,omitempty"`
		CreatedAt time.Time  `json:"createdAt"`
		UpdatedAt *time.Time `json:"updatedAt,omitempty"`
	}

	// EarningPatch carries the fields of a partial earning update. Nil fields keep
	// their stored value.
	EarningPatch struct {
		Amount   *Amount   `json:"amount,omitempty"`
		Category *Category `json:"category,omitempty"`
		Date     *Date     `json:"date,omitempty"`
		Source   *string   `json:"source,omitempty"`
		Notes    *string   `json:"notes,omitempty"`
	}

	Profile struct {
		Name        string     `json:"name"`
		Username    string     `json:"username"`
		Email       string     `json:"email"`
		Mobile      string     `json:"mobile"`
		Currency    string     `json:"currency"`
		Occupation  Occupation `json:"occupation"`
		MonthlyGoal Amount     `json:"monthlyGoal"`
		Avatar      string     `json:"avatar"`
		CreatedAt   time.Time  `json:"createdAt"`
		Verified    bool       `json:"verified"`
	}

	ProfilePatch struct {
		Name        *string     `json:"name,omitempty"`
		Username    *string     `json:"username,omitempty"`
		Email       *string     `json:"email,omitempty"`
		Mobile      *string     `json:"mobile,omitempty"`
		Currency    *string     `json:"currency,omitempty"`
		Occupation  *Occupation `json:"occupation,omitempty"`
		MonthlyGoal *Amount     `json:"monthlyGoal,omitempty"`
		Avatar      *string     `json:"avatar,omitempty"`
		Verified    *bool       `json:"verified,omitempty"`
	}

	Settings struct {
		Theme         Theme `json:"theme"`
		Notifications bool  `json:"notifications"`
	}

	SettingsPatch struct {
		Theme         *Theme `json:"theme,omitempty"`
		Notifications *bool  `json:"notifications,omitempty"`
	}
)

// DefaultCurrency is the currency symbol of a fresh profile.
const DefaultCurrency = "₹"

var (
	ErrValidation      = errors.New("validation failed")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidDate     = errors.New("invalid date")
	ErrNotFound        = errors.New("not found")
)

var categories = []Category{Cashback, Referral, Freelance, Salary, Business, Passive}

var categoryLabels = map[Category]string{
	Cashback:  "Cashback & Rewards",
	Referral:  "Referral Earnings",
	Freelance: "Freelance / Project",
	Salary:    "Salary / Stipend",
	Business:  "Business Income",
	Passive:   "Passive Income",
}

var categoryIcons = map[Category]string{
	Cashback:  "💳",
	Referral:  "🤝",
	Freelance: "💼",
	Salary:    "💰",
	Business:  "🏢",
	Passive:   "📈",
}

// Categories returns every known category in display order.
func Categories() []Category {
	return append([]Category(nil), categories...)
}

func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label returns the human readable name, or the raw value for unknown categories.
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

func (c Category) Icon() string {
	if i, ok := categoryIcons[c]; ok {
		return i
	}
	return "💵"
}

func (o Occupation) Valid() bool {
	switch o {
	case Student, Freelancer, Employee, Owner, Other:
		return true
	}
	return false
}

func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// ValidationError lists the fields that made a write get rejected.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: missing or invalid " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Validate checks the fields a caller must supply when recording an earning:
// a positive amount, a known category and a calendar date.
func (e Earning) Validate() error {
	var fields []string
	if _, err := ParseAmount(e.Amount.String()); err != nil {
		fields = append(fields, "amount")
	}
	if !e.Category.Valid() {
		fields = append(fields, "category")
	}
	if _, ok := e.Date.Normalize(); !ok {
		fields = append(fields, "date")
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Apply merges the non-nil patch fields over e.
func (p EarningPatch) Apply(e Earning) Earning {
	if p.Amount != nil {
		e.Amount = *p.Amount
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Source != nil {
		e.Source = *p.Source
	}
	if p.Notes != nil {
		e.Notes = *p.Notes
	}
	return e
}

func (p ProfilePatch) Apply(pr Profile) Profile {
	if p.Name != nil {
		pr.Name = *p.Name
	}
	if p.Username != nil {
		pr.Username = *p.Username
	}
	if p.Email != nil {
		pr.Email = *p.Email
	}
	if p.Mobile != nil {
		pr.Mobile = *p.Mobile
	}
	if p.Currency != nil {
		pr.Currency = *p.Currency
	}
	if p.Occupation != nil {
		pr.Occupation = *p.Occupation
	}
	if p.MonthlyGoal != nil {
		pr.MonthlyGoal = *p.MonthlyGoal
	}
	if p.Avatar != nil {
		pr.Avatar = *p.Avatar
	}
	if p.Verified != nil {
		pr.Verified = *p.Verified
	}
	return pr
}

func (p SettingsPatch) Apply(s Settings) Settings {
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	if p.Notifications != nil {
		s.Notifications = *p.Notifications
	}
	return s
}

// CurrencySymbol returns the profile currency, falling back to the default symbol.
func (p Profile) CurrencySymbol() string {
	if strings.TrimSpace(p.Currency) == "" {
		return DefaultCurrency
	}
	return p.Currency
}

// DefaultProfile is the singleton profile written on first run.
func DefaultProfile(now time.Time) Profile {
	return Profile{
		Currency:   DefaultCurrency,
		Occupation: Student,
		CreatedAt:  now,
	}
}

func DefaultSettings() Settings {
	return Settings{Theme: ThemeLight, Notifications: true}
}
