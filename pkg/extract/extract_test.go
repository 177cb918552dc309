package extract

import "testing"

func TestExtract_NameAndFeeling(t *testing.T) {
	info := Extract("My name is Alex, I feel great")

	if info[FieldName] != "Alex" {
		t.Errorf("name = %q, want %q", info[FieldName], "Alex")
	}
	if info[FieldFeelingToday] == "" {
		t.Error("expected feelingToday to be captured")
	}
}

func TestExtract_SingleLetterNameRejected(t *testing.T) {
	info := Extract("i'm A")
	if got, ok := info[FieldName]; ok {
		t.Errorf("single-letter name should be rejected, got %q", got)
	}
}

func TestExtract_NoIndicatorsYieldsEmptyMap(t *testing.T) {
	info := Extract("the weather was nice yesterday")
	if len(info) != 0 {
		t.Errorf("expected empty mapping, got %v", info)
	}
}

func TestExtract_SleepCapture(t *testing.T) {
	info := Extract("I'm Sam and I can't sleep at all")

	if info[FieldName] != "Sam" {
		t.Errorf("name = %q, want %q", info[FieldName], "Sam")
	}
	if info[FieldSleepQuality] == "" {
		t.Error("expected sleepQuality to be captured")
	}
}

func TestExtract_FirstIndicatorWinsPerCategory(t *testing.T) {
	// "slept" is listed before "sleep": the capture starts after "slept".
	info := Extract("I slept badly, sleep troubles again")
	if got := info[FieldSleepQuality]; got != "badly, sleep troubles again" {
		t.Errorf("sleepQuality = %q, want capture after first indicator", got)
	}
}

func TestExtract_CapturesAtMostTenWords(t *testing.T) {
	info := Extract("I feel one two three four five six seven eight nine ten eleven twelve")
	if got := info[FieldFeelingToday]; got != "one two three four five six seven eight nine ten" {
		t.Errorf("feelingToday = %q, want ten-word capture", got)
	}
}

func TestExtract_IndicatorWithNothingAfter(t *testing.T) {
	info := Extract("how do you feel")
	if got, ok := info[FieldFeelingToday]; ok {
		t.Errorf("trailing indicator should capture nothing, got %q", got)
	}
}

func TestExtract_EmptyCaptureTriesLaterIndicators(t *testing.T) {
	// "feel" sits at the end of the message with nothing to capture, but
	// "mood" appears earlier and must still yield the field.
	info := Extract("my mood is great, that's how I feel")
	if got := info[FieldFeelingToday]; got != "is great, that's how i feel" {
		t.Errorf("feelingToday = %q, want capture after %q", got, "mood")
	}
}

func TestExtract_RejectedNameTriesLaterIndicators(t *testing.T) {
	info := Extract("i'm a, call me Sam")
	if got := info[FieldName]; got != "Sam" {
		t.Errorf("name = %q, want %q via the later indicator", got, "Sam")
	}
}

func TestExtract_NameCapitalizedUnicode(t *testing.T) {
	info := Extract("call me élodie")
	if got := info[FieldName]; got != "Élodie" {
		t.Errorf("name = %q, want %q", got, "Élodie")
	}
}

func TestExtract_MultipleCategories(t *testing.T) {
	info := Extract("I'm Dana, feeling low, stressed about work and tired all day")

	for _, field := range []string{FieldName, FieldFeelingToday, FieldStressLevel, FieldSleepQuality} {
		if info[field] == "" {
			t.Errorf("expected %s to be captured, got %v", field, info)
		}
	}
	if info[FieldName] != "Dana" {
		t.Errorf("name = %q, want %q", info[FieldName], "Dana")
	}
}

func TestExtract_NoSideEffects(t *testing.T) {
	msg := "I feel fine"
	first := Extract(msg)
	second := Extract(msg)
	if first[FieldFeelingToday] != second[FieldFeelingToday] {
		t.Error("Extract should be deterministic for the same input")
	}
}
