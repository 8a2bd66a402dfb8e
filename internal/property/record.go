package property

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Attribute keys as produced by the BLM decoder.
const (
	KeyStatusID         = "statusId"
	KeyPriceQualifier   = "priceQualifier"
	KeyPublishedFlag    = "publishedFlag"
	KeyLetTypeID        = "letTypeId"
	KeyLetFurnID        = "letFurnId"
	KeyLetRentFrequency = "letRentFrequency"
	KeyTenureTypeID     = "tenureTypeId"
	KeyTransTypeID      = "transTypeId"

	KeyAgentRef       = "agentRef"
	KeyBranchID       = "branchId"
	KeyPrice          = "price"
	KeyBedrooms       = "bedrooms"
	KeyDisplayAddress = "displayAddress"
	KeySummary        = "summary"
	KeyDescription    = "description"
)

// Serializable is implemented by anything that can hand back a value
// ready for encoding/json.
type Serializable interface {
	JSONValue() any
}

// Fields is the typed, serialised view of a Record.
type Fields struct {
	StatusID         string `json:"statusId"`
	PriceQualifier   string `json:"priceQualifier"`
	PublishedFlag    string `json:"publishedFlag"`
	LetTypeID        string `json:"letTypeId"`
	LetFurnID        string `json:"letFurnId"`
	LetRentFrequency string `json:"letRentFrequency"`
	TenureTypeID     string `json:"tenureTypeId"`
	TransTypeID      string `json:"transTypeId"`

	AgentRef       string `json:"agentRef"`
	BranchID       string `json:"branchId"`
	Price          string `json:"price"`
	Bedrooms       string `json:"bedrooms"`
	DisplayAddress string `json:"displayAddress"`
	Summary        string `json:"summary"`
	Description    string `json:"description"`

	Features []string `json:"features"`
	Images   []string `json:"images"`
	Epcs     []string `json:"epcs"`
	Hips     []string `json:"hips"`
}

// Record is one property listing from a feed snapshot. It never changes
// after New returns, so it can be shared between goroutines.
type Record struct {
	attrs  map[string]string
	layout Layout
	fields Fields
}

// Option configures New.
type Option func(*Record)

// WithLayout sets the numbered field groups used for the collections.
func WithLayout(l Layout) Option {
	return func(r *Record) {
		r.layout = l
	}
}

// New builds a record from a flat attribute map. Missing keys read as blank.
func New(attrs map[string]string, opts ...Option) *Record {
	r := &Record{
		attrs:  make(map[string]string, len(attrs)),
		layout: DefaultLayout(),
	}
	for k, v := range attrs {
		r.attrs[k] = v
	}
	for _, opt := range opts {
		opt(r)
	}

	r.fields = Fields{
		StatusID:         r.attrs[KeyStatusID],
		PriceQualifier:   r.attrs[KeyPriceQualifier],
		PublishedFlag:    r.attrs[KeyPublishedFlag],
		LetTypeID:        r.attrs[KeyLetTypeID],
		LetFurnID:        r.attrs[KeyLetFurnID],
		LetRentFrequency: r.attrs[KeyLetRentFrequency],
		TenureTypeID:     r.attrs[KeyTenureTypeID],
		TransTypeID:      r.attrs[KeyTransTypeID],

		AgentRef:       r.attrs[KeyAgentRef],
		BranchID:       r.attrs[KeyBranchID],
		Price:          r.attrs[KeyPrice],
		Bedrooms:       r.attrs[KeyBedrooms],
		DisplayAddress: r.attrs[KeyDisplayAddress],
		Summary:        r.attrs[KeySummary],
		Description:    r.attrs[KeyDescription],

		Features: r.layout.Features.Filter(r.attrs),
		Images:   r.layout.Images.Filter(r.attrs),
		Epcs:     r.layout.Epcs.Filter(r.attrs),
		Hips:     r.layout.Floorplans.Filter(r.attrs),
	}
	return r
}

func (r *Record) StatusID() string         { return r.fields.StatusID }
func (r *Record) PriceQualifier() string   { return r.fields.PriceQualifier }
func (r *Record) PublishedFlag() string    { return r.fields.PublishedFlag }
func (r *Record) LetTypeID() string        { return r.fields.LetTypeID }
func (r *Record) LetFurnID() string        { return r.fields.LetFurnID }
func (r *Record) LetRentFrequency() string { return r.fields.LetRentFrequency }
func (r *Record) TenureTypeID() string     { return r.fields.TenureTypeID }

// TransTypeID is "1" for resale and "2" for lettings.
func (r *Record) TransTypeID() string { return r.fields.TransTypeID }

func (r *Record) AgentRef() string       { return r.fields.AgentRef }
func (r *Record) BranchID() string       { return r.fields.BranchID }
func (r *Record) Price() string          { return r.fields.Price }
func (r *Record) Bedrooms() string       { return r.fields.Bedrooms }
func (r *Record) DisplayAddress() string { return r.fields.DisplayAddress }
func (r *Record) Summary() string        { return r.fields.Summary }
func (r *Record) Description() string    { return r.fields.Description }

// Features returns the non-blank featureN values.
func (r *Record) Features() []string { return clone(r.fields.Features) }

// Images returns the non-blank image references.
func (r *Record) Images() []string { return clone(r.fields.Images) }

// EpcEntries returns the non-blank EPC references.
func (r *Record) EpcEntries() []string { return clone(r.fields.Epcs) }

// FloorplanEntries returns the non-blank floorplan references.
func (r *Record) FloorplanEntries() []string { return clone(r.fields.Hips) }

// Attributes returns a copy of the map the record was built from.
func (r *Record) Attributes() map[string]string {
	out := make(map[string]string, len(r.attrs))
	for k, v := range r.attrs {
		out[k] = v
	}
	return out
}

// Fields returns the typed view of the record.
func (r *Record) Fields() Fields {
	f := r.fields
	f.Features = clone(f.Features)
	f.Images = clone(f.Images)
	f.Epcs = clone(f.Epcs)
	f.Hips = clone(f.Hips)
	return f
}

// ToMap returns the record as a plain map keyed like the JSON form.
func (r *Record) ToMap() map[string]any {
	f := r.Fields()
	return map[string]any{
		KeyStatusID:         f.StatusID,
		KeyPriceQualifier:   f.PriceQualifier,
		KeyPublishedFlag:    f.PublishedFlag,
		KeyLetTypeID:        f.LetTypeID,
		KeyLetFurnID:        f.LetFurnID,
		KeyLetRentFrequency: f.LetRentFrequency,
		KeyTenureTypeID:     f.TenureTypeID,
		KeyTransTypeID:      f.TransTypeID,

		KeyAgentRef:       f.AgentRef,
		KeyBranchID:       f.BranchID,
		KeyPrice:          f.Price,
		KeyBedrooms:       f.Bedrooms,
		KeyDisplayAddress: f.DisplayAddress,
		KeySummary:        f.Summary,
		KeyDescription:    f.Description,

		"features": f.Features,
		"images":   f.Images,
		"epcs":     f.Epcs,
		"hips":     f.Hips,
	}
}

// JSONValue implements Serializable.
func (r *Record) JSONValue() any {
	return r.Fields()
}

func (r *Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.JSONValue())
}

// Hash is a hex sha256 over every attribute plus the layout, so a change to
// any feed column gives a new hash. encoding/json writes map keys in sorted
// order, and marshalling string maps and plain structs cannot fail.
func (r *Record) Hash() string {
	b, err := json.Marshal(struct {
		Attributes map[string]string `json:"attributes"`
		Layout     Layout            `json:"layout"`
	}{r.attrs, r.layout})
	if err != nil {
		panic(fmt.Sprintf("property: hash %s: %v", r.fields.AgentRef, err))
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func clone(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
