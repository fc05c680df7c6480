package domain

import (
	"errors"
	"fmt"
	"slices"
)

// ErrUnknownValue is returned when a stored enum value is not recognised.
// Repositories fail loudly instead of letting an unknown stage or status
// fall through an aggregation switch.
var ErrUnknownValue = errors.New("unknown enum value")

func unknown(kind, value string) error {
	return fmt.Errorf("%w: %s %q", ErrUnknownValue, kind, value)
}

// Side is the party a broker represents in a transaction.
type Side string

const (
	SideBuy  Side = "BUY_SIDE"
	SideSell Side = "SELL_SIDE"
)

// Valid reports whether s is a known side.
func (s Side) Valid() bool {
	switch s {
	case SideBuy, SideSell:
		return true
	}
	return false
}

// Stages returns the side's stages in pipeline order.
func (s Side) Stages() []Stage {
	switch s {
	case SideBuy:
		return slices.Clone(buyerStages)
	case SideSell:
		return slices.Clone(sellerStages)
	}
	return nil
}

// ParseSide validates a raw side value.
func ParseSide(raw string) (Side, error) {
	side := Side(raw)
	if !side.Valid() {
		return "", unknown("side", raw)
	}
	return side, nil
}

// AllSides lists sides in display order.
func AllSides() []Side {
	return []Side{SideBuy, SideSell}
}

// TransactionStatus is the lifecycle state of a transaction.
type TransactionStatus string

const (
	TransactionActive     TransactionStatus = "ACTIVE"
	TransactionClosed     TransactionStatus = "CLOSED_SUCCESSFULLY"
	TransactionTerminated TransactionStatus = "TERMINATED_EARLY"
)

// Valid reports whether s is a known status.
func (s TransactionStatus) Valid() bool {
	switch s {
	case TransactionActive, TransactionClosed, TransactionTerminated:
		return true
	}
	return false
}

// ParseTransactionStatus validates a raw status value.
func ParseTransactionStatus(raw string) (TransactionStatus, error) {
	status := TransactionStatus(raw)
	if !status.Valid() {
		return "", unknown("transaction status", raw)
	}
	return status, nil
}

// Stage is a step of the buyer or seller pipeline. Buyer and seller stages
// share one type; Side reports which pipeline a stage belongs to.
type Stage string

const (
	BuyerFinancialPreparation   Stage = "BUYER_FINANCIAL_PREPARATION"
	BuyerPropertySearch         Stage = "BUYER_PROPERTY_SEARCH"
	BuyerOfferAndNegotiation    Stage = "BUYER_OFFER_AND_NEGOTIATION"
	BuyerFinancingAndConditions Stage = "BUYER_FINANCING_AND_CONDITIONS"
	BuyerNotaryAndSigning       Stage = "BUYER_NOTARY_AND_SIGNING"
	BuyerPossession             Stage = "BUYER_POSSESSION"

	SellerInitialConsultation    Stage = "SELLER_INITIAL_CONSULTATION"
	SellerPublishListing         Stage = "SELLER_PUBLISH_LISTING"
	SellerOfferAndNegotiation    Stage = "SELLER_OFFER_AND_NEGOTIATION"
	SellerFinancingAndConditions Stage = "SELLER_FINANCING_AND_CONDITIONS"
	SellerNotaryAndSigning       Stage = "SELLER_NOTARY_AND_SIGNING"
	SellerHandoverKeys           Stage = "SELLER_HANDOVER_KEYS"
)

var buyerStages = []Stage{
	BuyerFinancialPreparation,
	BuyerPropertySearch,
	BuyerOfferAndNegotiation,
	BuyerFinancingAndConditions,
	BuyerNotaryAndSigning,
	BuyerPossession,
}

var sellerStages = []Stage{
	SellerInitialConsultation,
	SellerPublishListing,
	SellerOfferAndNegotiation,
	SellerFinancingAndConditions,
	SellerNotaryAndSigning,
	SellerHandoverKeys,
}

// Side returns the pipeline the stage belongs to.
func (s Stage) Side() (Side, bool) {
	switch {
	case slices.Contains(buyerStages, s):
		return SideBuy, true
	case slices.Contains(sellerStages, s):
		return SideSell, true
	}
	return "", false
}

// Order returns the stage's position within its pipeline, or -1.
func (s Stage) Order() int {
	if i := slices.Index(buyerStages, s); i >= 0 {
		return i
	}
	return slices.Index(sellerStages, s)
}

// ParseStage validates a stage against the given side.
func ParseStage(raw string, side Side) (Stage, error) {
	stage := Stage(raw)
	owner, ok := stage.Side()
	if !ok || owner != side {
		return "", unknown(string(side)+" stage", raw)
	}
	return stage, nil
}

// AppointmentStatus is the negotiation state of an appointment.
type AppointmentStatus string

const (
	AppointmentProposed  AppointmentStatus = "PROPOSED"
	AppointmentConfirmed AppointmentStatus = "CONFIRMED"
	AppointmentDeclined  AppointmentStatus = "DECLINED"
	AppointmentCancelled AppointmentStatus = "CANCELLED"
)

// Valid reports whether s is a known status.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentProposed, AppointmentConfirmed, AppointmentDeclined, AppointmentCancelled:
		return true
	}
	return false
}

// Terminal reports whether the appointment can no longer take place.
func (s AppointmentStatus) Terminal() bool {
	switch s {
	case AppointmentDeclined, AppointmentCancelled:
		return true
	case AppointmentProposed, AppointmentConfirmed:
		return false
	}
	return true
}

// ParseAppointmentStatus validates a raw status value.
func ParseAppointmentStatus(raw string) (AppointmentStatus, error) {
	status := AppointmentStatus(raw)
	if !status.Valid() {
		return "", unknown("appointment status", raw)
	}
	return status, nil
}

// Initiator is who requested an appointment.
type Initiator string

const (
	InitiatorBroker Initiator = "BROKER"
	InitiatorClient Initiator = "CLIENT"
)

// Valid reports whether i is a known initiator.
func (i Initiator) Valid() bool {
	switch i {
	case InitiatorBroker, InitiatorClient:
		return true
	}
	return false
}

// ParseInitiator validates a raw initiator value.
func ParseInitiator(raw string) (Initiator, error) {
	initiator := Initiator(raw)
	if !initiator.Valid() {
		return "", unknown("initiator", raw)
	}
	return initiator, nil
}

// AppointmentKind classifies what an appointment is for.
type AppointmentKind string

const (
	KindShowing      AppointmentKind = "SHOWING"
	KindHouseVisit   AppointmentKind = "HOUSE_VISIT"
	KindOpenHouse    AppointmentKind = "OPEN_HOUSE"
	KindConsultation AppointmentKind = "CONSULTATION"
	KindInspection   AppointmentKind = "INSPECTION"
	KindSigning      AppointmentKind = "SIGNING"
	KindOther        AppointmentKind = "OTHER"
)

// Valid reports whether k is a known kind.
func (k AppointmentKind) Valid() bool {
	switch k {
	case KindShowing, KindHouseVisit, KindOpenHouse, KindConsultation, KindInspection, KindSigning, KindOther:
		return true
	}
	return false
}

// IsVisit reports whether the appointment puts a party inside a property.
func (k AppointmentKind) IsVisit() bool {
	switch k {
	case KindShowing, KindHouseVisit, KindOpenHouse:
		return true
	case KindConsultation, KindInspection, KindSigning, KindOther:
		return false
	}
	return false
}

// ParseAppointmentKind validates a raw kind; blank values map to OTHER.
func ParseAppointmentKind(raw string) (AppointmentKind, error) {
	if raw == "" {
		return KindOther, nil
	}
	kind := AppointmentKind(raw)
	if !kind.Valid() {
		return "", unknown("appointment kind", raw)
	}
	return kind, nil
}

// DocumentStatus is the review state of a requested document.
type DocumentStatus string

const (
	DocumentRequested     DocumentStatus = "REQUESTED"
	DocumentSubmitted     DocumentStatus = "SUBMITTED"
	DocumentApproved      DocumentStatus = "APPROVED"
	DocumentNeedsRevision DocumentStatus = "NEEDS_REVISION"
)

// Valid reports whether s is a known status.
func (s DocumentStatus) Valid() bool {
	switch s {
	case DocumentRequested, DocumentSubmitted, DocumentApproved, DocumentNeedsRevision:
		return true
	}
	return false
}

// Pending reports whether the client still owes the broker this document.
func (s DocumentStatus) Pending() bool {
	switch s {
	case DocumentRequested, DocumentNeedsRevision:
		return true
	case DocumentSubmitted, DocumentApproved:
		return false
	}
	return false
}

// ParseDocumentStatus validates a raw status value.
func ParseDocumentStatus(raw string) (DocumentStatus, error) {
	status := DocumentStatus(raw)
	if !status.Valid() {
		return "", unknown("document status", raw)
	}
	return status, nil
}

// PropertyStatus is the buyer's interest in a shortlisted property.
type PropertyStatus string

const (
	PropertyInterested    PropertyStatus = "INTERESTED"
	PropertyNotInterested PropertyStatus = "NOT_INTERESTED"
	PropertyNeedsInfo     PropertyStatus = "NEEDS_INFO"
	PropertyUnderReview   PropertyStatus = "UNDER_REVIEW"
)

// Valid reports whether s is a known status.
func (s PropertyStatus) Valid() bool {
	switch s {
	case PropertyInterested, PropertyNotInterested, PropertyNeedsInfo, PropertyUnderReview:
		return true
	}
	return false
}

// ParsePropertyStatus validates a raw status value.
func ParsePropertyStatus(raw string) (PropertyStatus, error) {
	status := PropertyStatus(raw)
	if !status.Valid() {
		return "", unknown("property status", raw)
	}
	return status, nil
}

// PropertyOfferStatus is the state of an offer a buyer made on a property.
type PropertyOfferStatus string

const (
	PropertyOfferMade      PropertyOfferStatus = "OFFER_MADE"
	PropertyOfferCountered PropertyOfferStatus = "COUNTERED"
	PropertyOfferAccepted  PropertyOfferStatus = "ACCEPTED"
	PropertyOfferDeclined  PropertyOfferStatus = "DECLINED"
	PropertyOfferWithdrawn PropertyOfferStatus = "WITHDRAWN"
	PropertyOfferExpired   PropertyOfferStatus = "EXPIRED"
)

// Valid reports whether s is a known status.
func (s PropertyOfferStatus) Valid() bool {
	switch s {
	case PropertyOfferMade, PropertyOfferCountered, PropertyOfferAccepted,
		PropertyOfferDeclined, PropertyOfferWithdrawn, PropertyOfferExpired:
		return true
	}
	return false
}

// ParsePropertyOfferStatus validates a raw status value.
func ParsePropertyOfferStatus(raw string) (PropertyOfferStatus, error) {
	status := PropertyOfferStatus(raw)
	if !status.Valid() {
		return "", unknown("property offer status", raw)
	}
	return status, nil
}

// CounterpartyResponse is the seller's answer to a buyer's offer.
type CounterpartyResponse string

const (
	ResponseAccepted  CounterpartyResponse = "ACCEPTED"
	ResponseDeclined  CounterpartyResponse = "DECLINED"
	ResponseCountered CounterpartyResponse = "COUNTERED"
	ResponseNone      CounterpartyResponse = "NO_RESPONSE"
)

// Valid reports whether r is a known response.
func (r CounterpartyResponse) Valid() bool {
	switch r {
	case ResponseAccepted, ResponseDeclined, ResponseCountered, ResponseNone:
		return true
	}
	return false
}

// ParseCounterpartyResponse validates a raw response value.
func ParseCounterpartyResponse(raw string) (CounterpartyResponse, error) {
	response := CounterpartyResponse(raw)
	if !response.Valid() {
		return "", unknown("counterparty response", raw)
	}
	return response, nil
}

// OfferStatus is the state of an offer received on a seller's listing.
type OfferStatus string

const (
	OfferPending     OfferStatus = "PENDING"
	OfferUnderReview OfferStatus = "UNDER_REVIEW"
	OfferCountered   OfferStatus = "COUNTERED"
	OfferAccepted    OfferStatus = "ACCEPTED"
	OfferDeclined    OfferStatus = "DECLINED"
	OfferWithdrawn   OfferStatus = "WITHDRAWN"
	OfferExpired     OfferStatus = "EXPIRED"
)

// Valid reports whether s is a known status.
func (s OfferStatus) Valid() bool {
	switch s {
	case OfferPending, OfferUnderReview, OfferCountered, OfferAccepted,
		OfferDeclined, OfferWithdrawn, OfferExpired:
		return true
	}
	return false
}

// ParseOfferStatus validates a raw status value.
func ParseOfferStatus(raw string) (OfferStatus, error) {
	status := OfferStatus(raw)
	if !status.Valid() {
		return "", unknown("offer status", raw)
	}
	return status, nil
}

// ConditionStatus is whether a transaction condition has been met.
type ConditionStatus string

const (
	ConditionPending   ConditionStatus = "PENDING"
	ConditionSatisfied ConditionStatus = "SATISFIED"
)

// Valid reports whether s is a known status.
func (s ConditionStatus) Valid() bool {
	switch s {
	case ConditionPending, ConditionSatisfied:
		return true
	}
	return false
}

// ParseConditionStatus validates a raw status value.
func ParseConditionStatus(raw string) (ConditionStatus, error) {
	status := ConditionStatus(raw)
	if !status.Valid() {
		return "", unknown("condition status", raw)
	}
	return status, nil
}

// TimelineEventType tags a timeline entry. Only STAGE_CHANGE is replayed by
// the pipeline; other types are carried through untouched.
type TimelineEventType string

const (
	TimelineStageChange TimelineEventType = "STAGE_CHANGE"
)

// ExportFormat is the artifact type of an analytics export.
type ExportFormat string

const (
	ExportCSV ExportFormat = "CSV"
	ExportPDF ExportFormat = "PDF"
)

// Valid reports whether f is a known format.
func (f ExportFormat) Valid() bool {
	switch f {
	case ExportCSV, ExportPDF:
		return true
	}
	return false
}

// Extension returns the file extension for the format.
func (f ExportFormat) Extension() string {
	switch f {
	case ExportCSV:
		return "csv"
	case ExportPDF:
		return "pdf"
	}
	return "bin"
}

// ContentType returns the MIME type for the format.
func (f ExportFormat) ContentType() string {
	switch f {
	case ExportCSV:
		return "text/csv"
	case ExportPDF:
		return "application/pdf"
	}
	return "application/octet-stream"
}
