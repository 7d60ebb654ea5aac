package entities

import (
	"encoding/json"
	"math"
	"testing"
)

func TestAvailabilityInput_UnmarshalTracksPresence(t *testing.T) {
	var in AvailabilityInput
	body := `{"is_recurring":"1","day_of_week":null,"start_time":"09:00","id":42}`
	if err := json.Unmarshal([]byte(body), &in); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !in.Has(FieldDayOfWeek) {
		t.Errorf("day_of_week sent as null should count as present")
	}
	if in.Has(FieldDate) {
		t.Errorf("date was not sent")
	}
	if in.IsRecurring != "1" {
		t.Errorf("is_recurring should keep its string form, got %#v", in.IsRecurring)
	}
	if string(in.Extra["id"]) != "42" {
		t.Errorf("unknown fields should be kept verbatim, got %q", in.Extra["id"])
	}
}

func TestAvailabilityInput_HasWithoutDecoding(t *testing.T) {
	in := AvailabilityInput{IsRecurring: true, StartTime: "09:00"}
	if !in.Has(FieldStartTime) || in.Has(FieldEndTime) {
		t.Errorf("presence should follow non-nil values for inputs built in code")
	}
}

func TestRecurringAvailability_MarshalOmitsDate(t *testing.T) {
	day := 5.0
	payload := RecurringAvailability{
		DayOfWeek: &day,
		StartTime: Some("09:00:00"),
		EndTime:   Some("17:00:00"),
	}
	got, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"day_of_week":5,"end_time":"17:00:00","is_recurring":true,"start_time":"09:00:00"}`
	if string(got) != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestRecurringAvailability_NaNDayEncodesAsNull(t *testing.T) {
	day := math.NaN()
	got, err := json.Marshal(RecurringAvailability{DayOfWeek: &day})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(got) != `{"day_of_week":null,"is_recurring":true}` {
		t.Errorf("unexpected payload %s", got)
	}
}

func TestOneOffAvailability_MarshalExplicitNullDate(t *testing.T) {
	payload := OneOffAvailability{
		StartTime: Some("10:00:00"),
		Extra:     map[string]json.RawMessage{"id": json.RawMessage(`7`)},
	}
	got, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"date":null,"id":7,"is_recurring":false,"start_time":"10:00:00"}`
	if string(got) != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestAvailability_DecodesLooseBackendTypes(t *testing.T) {
	var list []Availability
	body := `[{"id":1,"is_recurring":1,"day_of_week":"3","start_time":"08:00:00","end_time":"12:00:00"},
	          {"id":2,"is_recurring":"0","date":"2025-12-01","start_time":"14:00","end_time":"15:00"}]`
	if err := json.Unmarshal([]byte(body), &list); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !bool(list[0].IsRecurring) || list[0].DayOfWeek == nil || *list[0].DayOfWeek != 3 {
		t.Errorf("recurring record decoded wrong: %+v", list[0])
	}
	if bool(list[1].IsRecurring) || list[1].Date == nil || *list[1].Date != "2025-12-01" {
		t.Errorf("one-off record decoded wrong: %+v", list[1])
	}
}

func TestTruthyAndToNumber(t *testing.T) {
	cases := []struct {
		in     any
		truthy bool
		number float64
	}{
		{nil, false, 0},
		{true, true, 1},
		{false, false, 0},
		{"", false, 0},
		{"5", true, 5},
		{" 7 ", true, 7},
		{0.0, false, 0},
		{3.0, true, 3},
	}
	for _, tc := range cases {
		if got := Truthy(tc.in); got != tc.truthy {
			t.Errorf("Truthy(%#v) = %v, want %v", tc.in, got, tc.truthy)
		}
		if got := ToNumber(tc.in); got != tc.number {
			t.Errorf("ToNumber(%#v) = %v, want %v", tc.in, got, tc.number)
		}
	}

	if !math.IsNaN(ToNumber("monday")) {
		t.Errorf("non-numeric strings should coerce to NaN")
	}
	if !Truthy("0") {
		t.Errorf("the string \"0\" is truthy")
	}
}
