package submission

// Envelope is the JSON object posted to the automation webhook.
type Envelope struct {
	Body *Payload `json:"body"`
}

// LessonPayload is one lesson line as the automation service reads it.
type LessonPayload struct {
	Type         string  `json:"type"`
	Format       string  `json:"format"`
	TotalHours   float64 `json:"totalHours"`
	PricePerHour float64 `json:"pricePerHour"`
	Schedule     string  `json:"schedule"`
	LineTotal    float64 `json:"lineTotal"`
}

// InstallmentPayload is one entered row of the payment plan.
type InstallmentPayload struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

// Payload is the flattened contract draft consumed by the contract/PDF automation.
type Payload struct {
	DraftID string `json:"draftId,omitempty"`

	Language     string `json:"language"`
	Source       string `json:"source"`
	ContractDate string `json:"contractDate"`
	ClientType   string `json:"clientType"`

	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`

	AddrStreet  string `json:"addrStreet"`
	AddrHouse   string `json:"addrHouse"`
	AddrApt     string `json:"addrApt"`
	AddrCity    string `json:"addrCity"`
	AddrZip     string `json:"addrZip"`
	AddrState   string `json:"addrState"`
	AddrCountry string `json:"addrCountry"`
	Address     string `json:"address"`

	CompanyName    string `json:"companyName"`
	CompStreet     string `json:"compStreet"`
	CompHouse      string `json:"compHouse"`
	CompApt        string `json:"compApt"`
	CompCity       string `json:"compCity"`
	CompZip        string `json:"compZip"`
	CompState      string `json:"compState"`
	CompCountry    string `json:"compCountry"`
	CompanyAddress string `json:"companyAddress"`

	Program    string          `json:"program"`
	CourseLang string          `json:"courseLang"`
	Level      string          `json:"level"`
	Lessons    []LessonPayload `json:"lessons"`
	Discount   float64         `json:"discount"`

	// Summary fields of the single-lesson form, derived from all lines.
	LessonType     string  `json:"lessonType"`
	HoursPerLesson string  `json:"hoursPerLesson"`
	TotalHours     float64 `json:"totalHours"`
	PricePerHour   float64 `json:"pricePerHour"`
	ScheduleText   string  `json:"scheduleText"`

	GrossTotal           string `json:"grossTotal"`
	DiscountAmount       string `json:"discountAmount"`
	NetTotal             string `json:"netTotal"`
	CalculatedTotalValue int64  `json:"calculatedTotalValue"`
	Currency             string `json:"currency"`

	CourseStart       string               `json:"courseStart"`
	CourseEnd         string               `json:"courseEnd"`
	ValidUntil        string               `json:"validUntil"`
	Payments          []InstallmentPayload `json:"payments"`
	PaymentPlanString string               `json:"paymentPlanString"`
	RemainingAmount   float64              `json:"remainingAmount"`

	LegacyInstallments
}
