package models

import (
	"regexp"
	"sync"
	"testing"
)

var complaintNumberPattern = regexp.MustCompile(`^COMP-\d{13}-[0-9A-Z]{4}$`)

func TestGenerateComplaintNumberFormat(t *testing.T) {
	for i := 0; i < 100; i++ {
		number := GenerateComplaintNumber()
		if !complaintNumberPattern.MatchString(number) {
			t.Fatalf("номер %q не соответствует формату COMP-<мс>-<4 символа>", number)
		}
	}
}

func TestGenerateComplaintNumberUniqueConcurrent(t *testing.T) {
	const workers = 8
	const perWorker = 250

	var mu sync.Mutex
	seen := make(map[string]bool, workers*perWorker)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]string, 0, perWorker)
			for i := 0; i < perWorker; i++ {
				local = append(local, GenerateComplaintNumber())
			}
			mu.Lock()
			defer mu.Unlock()
			for _, number := range local {
				if seen[number] {
					t.Errorf("номер %q сгенерирован повторно", number)
				}
				seen[number] = true
			}
		}()
	}
	wg.Wait()

	if len(seen) != workers*perWorker {
		t.Fatalf("ожидалось %d уникальных номеров, получено %d", workers*perWorker, len(seen))
	}
}

func TestEnumValidators(t *testing.T) {
	if !IsValidComplaintType(ComplaintTypeProductQuality) {
		t.Error("product_quality должен быть допустимым типом")
	}
	if IsValidComplaintType("refund_request") {
		t.Error("refund_request не входит в перечень типов")
	}
	if !IsValidComplaintStatus(ComplaintStatusClosed) {
		t.Error("closed должен быть допустимым статусом")
	}
	if IsValidComplaintStatus("archived") {
		t.Error("archived не входит в перечень статусов")
	}
	if !IsValidComplaintPriority(ComplaintPriorityUrgent) {
		t.Error("urgent должен быть допустимым приоритетом")
	}
	if IsValidComplaintPriority("critical") {
		t.Error("critical не входит в перечень приоритетов")
	}
}

func TestAttachmentListScanRoundTrip(t *testing.T) {
	original := AttachmentList{
		{ImageURL: "https://cdn.example.com/a.jpg", PublicID: "complaints/a"},
		{ImageURL: "https://cdn.example.com/b.jpg", PublicID: "complaints/b"},
	}

	value, err := original.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}

	var restored AttachmentList
	if err := restored.Scan(value); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(restored) != 2 || restored[0].PublicID != "complaints/a" || restored[1].ImageURL != "https://cdn.example.com/b.jpg" {
		t.Fatalf("вложения искажены после round-trip: %+v", restored)
	}
}

func TestDynamicFieldsScanPreservesArbitraryKeys(t *testing.T) {
	original := DynamicFields{
		"visit_time":    "18:30",
		"table_number":  float64(12),
		"was_contacted": true,
	}

	value, err := original.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}

	var restored DynamicFields
	if err := restored.Scan(value); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if restored["visit_time"] != "18:30" {
		t.Errorf("visit_time искажен: %v", restored["visit_time"])
	}
	if restored["table_number"] != float64(12) {
		t.Errorf("table_number искажен: %v", restored["table_number"])
	}
	if restored["was_contacted"] != true {
		t.Errorf("was_contacted искажен: %v", restored["was_contacted"])
	}
}
