package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kharelpawan/uaebackend/internal/model"
)

func TestServiceCreateDefaults(t *testing.T) {
	st := newTestStore(t)
	h := NewServiceHandler(st, discardLogger())

	rr := httptest.NewRecorder()
	h.Create(rr, jsonRequest(t, "POST", "/api/services", map[string]interface{}{
		"title_en": "AC Repair",
		"title_ar": "تصليح مكيفات",
	}, nil))
	if rr.Code != http.StatusCreated {
		t.Fatalf("got status %d, want 201: %s", rr.Code, rr.Body.String())
	}

	body := decodeBody(t, rr)
	if body["icon"] != "Wrench" {
		t.Errorf("icon = %v, want default %q", body["icon"], "Wrench")
	}
	if body["is_active"] != true {
		t.Errorf("is_active = %v, want true by default", body["is_active"])
	}
}

func TestServiceCreateExplicitInactive(t *testing.T) {
	st := newTestStore(t)
	h := NewServiceHandler(st, discardLogger())

	rr := httptest.NewRecorder()
	h.Create(rr, jsonRequest(t, "POST", "/api/services", map[string]interface{}{
		"title_en":  "Hidden",
		"title_ar":  "x",
		"is_active": false,
	}, nil))
	if rr.Code != http.StatusCreated {
		t.Fatalf("got status %d, want 201", rr.Code)
	}
	if body := decodeBody(t, rr); body["is_active"] != false {
		t.Errorf("is_active = %v, want false when explicitly disabled", body["is_active"])
	}
}

func TestServiceCreateValidation(t *testing.T) {
	st := newTestStore(t)
	h := NewServiceHandler(st, discardLogger())

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing english title", map[string]interface{}{"title_ar": "x"}},
		{"missing arabic title", map[string]interface{}{"title_en": "x"}},
		{"whitespace title", map[string]interface{}{"title_en": "   ", "title_ar": "x"}},
		{"negative sort order", map[string]interface{}{"title_en": "x", "title_ar": "y", "sort_order": -1}},
	}
	for _, tt := range tests {
		rr := httptest.NewRecorder()
		h.Create(rr, jsonRequest(t, "POST", "/api/services", tt.body, nil))
		if rr.Code != http.StatusBadRequest {
			t.Errorf("%s: got status %d, want 400", tt.name, rr.Code)
		}
	}
}

func TestServiceGetAndUpdate(t *testing.T) {
	st := newTestStore(t)
	h := NewServiceHandler(st, discardLogger())

	svc := &model.Service{TitleEN: "Old", TitleAR: "x", Icon: "Wrench", IsActive: true}
	if err := st.CreateService(context.Background(), svc); err != nil {
		t.Fatalf("CreateService: %v", err)
	}
	idParam := map[string]string{"id": "1"}

	rr := httptest.NewRecorder()
	h.Get(rr, jsonRequest(t, "GET", "/api/services/1", nil, idParam))
	if rr.Code != http.StatusOK {
		t.Fatalf("get: got status %d, want 200", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.Update(rr, jsonRequest(t, "PUT", "/api/services/1", map[string]interface{}{
		"title_en": "New", "title_ar": "y",
	}, idParam))
	if rr.Code != http.StatusOK {
		t.Fatalf("update: got status %d, want 200: %s", rr.Code, rr.Body.String())
	}
	if body := decodeBody(t, rr); body["title_en"] != "New" {
		t.Errorf("title_en = %v, want %q", body["title_en"], "New")
	}
}

func TestServiceNotFoundAndBadID(t *testing.T) {
	st := newTestStore(t)
	h := NewServiceHandler(st, discardLogger())

	rr := httptest.NewRecorder()
	h.Get(rr, jsonRequest(t, "GET", "/api/services/999", nil, map[string]string{"id": "999"}))
	if rr.Code != http.StatusNotFound {
		t.Errorf("unknown id: got status %d, want 404", rr.Code)
	}

	for _, bad := range []string{"abc", "0", "-3"} {
		rr := httptest.NewRecorder()
		h.Get(rr, jsonRequest(t, "GET", "/api/services/"+bad, nil, map[string]string{"id": bad}))
		if rr.Code != http.StatusBadRequest {
			t.Errorf("id %q: got status %d, want 400", bad, rr.Code)
		}
	}

	rr = httptest.NewRecorder()
	h.Delete(rr, jsonRequest(t, "DELETE", "/api/services/999", nil, map[string]string{"id": "999"}))
	if rr.Code != http.StatusNotFound {
		t.Errorf("delete unknown id: got status %d, want 404", rr.Code)
	}
}

func TestServiceListsSplitByActive(t *testing.T) {
	st := newTestStore(t)
	h := NewServiceHandler(st, discardLogger())
	ctx := context.Background()

	for _, svc := range []*model.Service{
		{TitleEN: "Visible", TitleAR: "a", Icon: "i", IsActive: true},
		{TitleEN: "Hidden", TitleAR: "b", Icon: "i", IsActive: false},
	} {
		if err := st.CreateService(ctx, svc); err != nil {
			t.Fatalf("CreateService: %v", err)
		}
	}

	rr := httptest.NewRecorder()
	h.ListActive(rr, jsonRequest(t, "GET", "/api/services", nil, nil))
	var active []model.Service
	if err := jsonDecode(rr, &active); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(active) != 1 || active[0].TitleEN != "Visible" {
		t.Errorf("active list = %+v, want only the visible service", active)
	}

	rr = httptest.NewRecorder()
	h.ListAll(rr, jsonRequest(t, "GET", "/api/services/all", nil, nil))
	var all []model.Service
	if err := jsonDecode(rr, &all); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("got %d services in all list, want 2", len(all))
	}
}
