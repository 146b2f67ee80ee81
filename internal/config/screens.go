package config

import (
	"strings"

	"liftdesk/internal/logic"
)

// Screen describes one remote list: where it loads from and how its items
// are searched, filtered, sorted and edited.
type Screen struct {
	Name          string           `toml:"name"`
	Title         string           `toml:"title"`
	Endpoint      string           `toml:"endpoint"`
	CollectionKey string           `toml:"collection_key,omitempty"`
	IDField       string           `toml:"id_field,omitempty"`
	Columns       []string         `toml:"columns"`
	SearchFields  []string         `toml:"search_fields"`
	SuggestFields []string         `toml:"suggest_fields"`
	Filters       []Filter         `toml:"filters,omitempty"`
	Sort          logic.Comparator `toml:"sort,omitempty"`

	Writable   bool     `toml:"writable"`
	Form       string   `toml:"form,omitempty"`
	FormFields []string `toml:"form_fields,omitempty"`

	// Association step: the list field holding member ids, the body key the
	// assign endpoint expects, and the screen listing assignable members.
	MembersField  string `toml:"members_field,omitempty"`
	MemberIDField string `toml:"member_id_field,omitempty"`
	MemberScreen  string `toml:"member_screen,omitempty"`

	AmountField string `toml:"amount_field,omitempty"`
	Currency    string `toml:"currency,omitempty"`
}

// Filter is a categorical filter and the values it cycles through
type Filter struct {
	Field  string   `toml:"field"`
	Values []string `toml:"values"`
}

// HasMembers reports whether submissions include an association step
func (s Screen) HasMembers() bool {
	return s.MembersField != "" && s.MemberIDField != ""
}

// FilterFields lists the filterable field names
func (s Screen) FilterFields() []string {
	out := make([]string, len(s.Filters))
	for i, f := range s.Filters {
		out[i] = f.Field
	}
	return out
}

// Filter returns the filter definition for field
func (s Screen) Filter(field string) (Filter, bool) {
	for _, f := range s.Filters {
		if f.Field == field {
			return f, true
		}
	}
	return Filter{}, false
}

func (s *Screen) fillDefaults() {
	if s.IDField == "" {
		s.IDField = "id"
	}
	if s.Title == "" && s.Name != "" {
		s.Title = strings.ToUpper(s.Name[:1]) + s.Name[1:]
	}
	if len(s.SuggestFields) == 0 {
		s.SuggestFields = s.SearchFields
	}
	if len(s.Columns) == 0 {
		s.Columns = s.SearchFields
	}
	if len(s.FormFields) == 0 && s.Writable {
		s.FormFields = s.Columns
	}
	if s.AmountField != "" && s.Currency == "" {
		s.Currency = "INR"
	}
}

var (
	jobStatuses       = []string{"PENDING", "PICKED", "ON_THE_WAY", "AT_SITE", "IN_PROGRESS", "COMPLETED", "CANCELLED"}
	repairStatuses    = []string{"PENDING", "IN_PROGRESS", "COMPLETED", "CANCELLED"}
	serviceStatuses   = []string{"pending", "scheduled", "in_progress", "completed", "overdue"}
	complaintStatuses = []string{"open", "in_progress", "resolved", "closed"}
	paymentStatuses   = []string{"PAID", "PENDING", "OVERDUE", "PARTIAL"}
	priorities        = []string{"urgent", "high", "medium", "low"}
)

// DefaultScreens is the built-in catalog used when the config file defines none
func DefaultScreens() []Screen {
	screens := []Screen{
		{
			Name:          "callbacks",
			Title:         "CallBack",
			Endpoint:      "/callbacks/",
			Columns:       []string{"customer_name", "customer_job_number", "scheduled_date", "priority", "status", "description"},
			SearchFields:  []string{"customer_name", "customer_job_number", "description"},
			SuggestFields: []string{"customer_name", "customer_job_number"},
			Filters:       []Filter{{Field: "status", Values: jobStatuses}},
			Sort:          logic.Comparator{{Field: "priority", Kind: logic.KindRank, Ranks: priorities}},
			Writable:      true,
			Form:          "callback",
			FormFields:    []string{"customer_id", "scheduled_date", "description", "notes"},
			MembersField:  "technicians",
			MemberIDField: "technician_id",
			MemberScreen:  "technicians",
		},
		{
			Name:          "repairs",
			Title:         "Repair",
			Endpoint:      "/repairs/",
			Columns:       []string{"customer_name", "customer_job_number", "scheduled_date", "status", "contact_number"},
			SearchFields:  []string{"customer_name", "existing_customer_name", "customer_job_number", "description", "contact_number"},
			SuggestFields: []string{"customer_name", "existing_customer_name"},
			Filters:       []Filter{{Field: "status", Values: repairStatuses}},
			Sort: logic.Comparator{
				{Field: "status", Kind: logic.KindRank, Ranks: repairStatuses},
				{Field: "scheduled_date", Kind: logic.KindTime, Descending: true},
			},
			Writable:      true,
			Form:          "repair",
			FormFields:    []string{"is_existing_customer", "customer_id", "customer_name", "contact_number", "scheduled_date", "description", "notes"},
			MembersField:  "technicians",
			MemberIDField: "technician_id",
			MemberScreen:  "technicians",
		},
		{
			Name:         "customers",
			Title:        "Customer",
			Endpoint:     "/customers/",
			Columns:      []string{"name", "job_number", "area", "route", "amc_valid_to", "amc_amount"},
			SearchFields: []string{"name", "job_number", "area"},
			Filters:      []Filter{{Field: "route", Values: []string{"1", "2", "3", "4", "5", "6", "7", "8"}}},
			Sort:         logic.Comparator{{Field: "name", Kind: logic.KindText}},
			Writable:     true,
			Form:         "customer",
			FormFields: []string{
				"name", "site_name", "job_number", "contact_person", "phone", "area", "address",
				"route", "amc_valid_from", "amc_valid_to", "amc_amount",
			},
			AmountField: "amc_amount",
			Currency:    "INR",
		},
		{
			Name:         "services",
			Title:        "Service",
			Endpoint:     "/services/schedules",
			Columns:      []string{"customer_name", "job_number", "area", "scheduled_date", "status"},
			SearchFields: []string{"customer_name", "job_number", "area"},
			Filters:      []Filter{{Field: "status", Values: serviceStatuses}},
			Sort:         logic.Comparator{{Field: "scheduled_date", Kind: logic.KindTime}},
		},
		{
			Name:          "complaints",
			Title:         "Complaint",
			Endpoint:      "/complaints/",
			Columns:       []string{"complaint_id", "customer_name", "title", "priority", "status", "created_at"},
			SearchFields:  []string{"complaint_id", "customer_name", "title", "description"},
			SuggestFields: []string{"customer_name", "title"},
			Filters: []Filter{
				{Field: "status", Values: complaintStatuses},
				{Field: "priority", Values: priorities},
			},
			Sort: logic.Comparator{
				{Field: "status", Kind: logic.KindRank, Ranks: complaintStatuses},
				{Field: "priority", Kind: logic.KindRank, Ranks: priorities},
				{Field: "created_at", Kind: logic.KindTime, DirectionBy: "status", FlipFor: []string{"resolved", "closed"}},
			},
			Writable:   true,
			FormFields: []string{"customer_id", "title", "description", "issue_type", "priority", "status"},
		},
		{
			Name:          "technicians",
			Title:         "Technician",
			Endpoint:      "/admin/technicians",
			CollectionKey: "users",
			Columns:       []string{"name", "email", "phone", "is_active"},
			SearchFields:  []string{"name", "email", "phone"},
			SuggestFields: []string{"name", "email"},
			Sort:          logic.Comparator{{Field: "name", Kind: logic.KindText}},
		},
		{
			// Payments keep the backend's order
			Name:         "payments",
			Title:        "Payment",
			Endpoint:     "/payments/",
			Columns:      []string{"invoice_number", "customer_name", "amount", "amount_paid", "due_date", "status"},
			SearchFields: []string{"customer_name", "invoice_number"},
			Filters:      []Filter{{Field: "status", Values: paymentStatuses}},
			AmountField:  "amount",
			Currency:     "INR",
		},
	}
	for i := range screens {
		screens[i].fillDefaults()
	}
	return screens
}
