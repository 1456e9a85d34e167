package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"viajei/internal/generator"
	"viajei/internal/models/db_models"
	"viajei/internal/models/request_models"
	"viajei/internal/repositories"
	"viajei/pkg/utils"
)

type failingGenerator struct{}

func (failingGenerator) Name() string { return "failing" }

func (failingGenerator) Generate(context.Context, generator.Request) (*generator.Plan, error) {
	return nil, errors.New("quota exceeded")
}

type itineraryFixture struct {
	users       *fakeUsers
	itineraries *fakeItineraries
	publisher   *recordingPublisher
	svc         *ItineraryService
	owner       *db_models.User
}

func newItineraryFixture(gen generator.ItineraryGenerator) *itineraryFixture {
	users := newFakeUsers()
	f := &itineraryFixture{
		users:       users,
		itineraries: newFakeItineraries(users),
		publisher:   &recordingPublisher{},
	}
	f.svc = NewItineraryService(f.itineraries, users, gen, f.publisher).(*ItineraryService)
	f.svc.now = fixedClock(date("2024-02-01"))
	f.owner = users.add("Ana", "ana@example.com", true)
	return f
}

func lisbonRequest() request_models.CreateItineraryRequest {
	return request_models.CreateItineraryRequest{
		Title:       "Lisboa em março",
		Destination: request_models.DestinationInput{City: "Lisboa", Country: "Portugal"},
		StartDate:   "2024-03-01",
		EndDate:     "2024-03-04",
	}
}

func TestCreateItinerary(t *testing.T) {
	f := newItineraryFixture(generator.MockGenerator{})
	ctx := context.Background()

	it, err := f.svc.Create(ctx, f.owner.ID, lisbonRequest())
	if err != nil {
		t.Fatal(err)
	}
	if it.Duration != 4 {
		t.Errorf("Duration = %d, want 4", it.Duration)
	}
	if it.Status != db_models.StatusDraft || it.Budget.Level != db_models.BudgetMedium || it.Budget.Currency != "BRL" {
		t.Errorf("defaults = %s %s %s", it.Status, it.Budget.Level, it.Budget.Currency)
	}
	if it.Budget.EstimatedTotal != 2600 {
		t.Errorf("EstimatedTotal = %v, want 2600", it.Budget.EstimatedTotal)
	}
	if it.Expenses == nil || it.Collaborators == nil || it.Likes == nil {
		t.Error("collections must be initialised")
	}
	if !f.publisher.checked(f.owner.ID) || len(f.publisher.indexed) != 1 {
		t.Errorf("events = %+v", f.publisher)
	}

	bad := lisbonRequest()
	bad.EndDate = "2024-02-20"
	if _, err := f.svc.Create(ctx, f.owner.ID, bad); !errors.Is(err, utils.ErrInvalidInput) {
		t.Errorf("reversed dates error = %v", err)
	}
}

func TestCreateItineraryKeepsExplicitBudget(t *testing.T) {
	f := newItineraryFixture(generator.MockGenerator{})
	req := lisbonRequest()
	req.Budget = &request_models.BudgetInput{Level: "luxo", EstimatedTotal: ptr(9000.0), Currency: "eur"}

	it, err := f.svc.Create(context.Background(), f.owner.ID, req)
	if err != nil {
		t.Fatal(err)
	}
	if it.Budget.EstimatedTotal != 9000 || it.Budget.Currency != "EUR" || it.Budget.Level != db_models.BudgetLuxury {
		t.Errorf("budget = %+v", it.Budget)
	}
}

func TestGenerateItinerary(t *testing.T) {
	f := newItineraryFixture(generator.MockGenerator{})
	it, err := f.svc.Generate(context.Background(), f.owner.ID, request_models.GenerateItineraryRequest{
		Destination: request_models.DestinationInput{City: "Recife", Country: "Brasil"},
		StartDate:   "2024-03-01",
		EndDate:     "2024-03-03",
	})
	if err != nil {
		t.Fatal(err)
	}
	if it.Title != "Viagem para Recife" || !it.GeneratedByAI || it.AIPrompt == nil {
		t.Errorf("generated = %q ai=%v prompt=%v", it.Title, it.GeneratedByAI, it.AIPrompt)
	}
	if len(it.Days) != 3 {
		t.Fatalf("days = %d, want 3", len(it.Days))
	}
	if it.Preferences.TravelStyle != "solo" || it.Preferences.Pace != "moderado" {
		t.Errorf("preferences = %+v", it.Preferences)
	}
	if !strings.Contains(*it.AIPrompt, "Recife") {
		t.Errorf("prompt = %s", *it.AIPrompt)
	}
}

func TestGenerateItineraryProviderFailure(t *testing.T) {
	f := newItineraryFixture(failingGenerator{})
	_, err := f.svc.Generate(context.Background(), f.owner.ID, request_models.GenerateItineraryRequest{
		Destination: request_models.DestinationInput{City: "Recife", Country: "Brasil"},
		StartDate:   "2024-03-01",
		EndDate:     "2024-03-03",
	})
	if !errors.Is(err, utils.ErrGeneratorUnavailable) {
		t.Errorf("err = %v, want ErrGeneratorUnavailable", err)
	}
	if all, _ := f.itineraries.ListByOwner(context.Background(), f.owner.ID); len(all) != 0 {
		t.Errorf("stored %d itineraries after failure", len(all))
	}
}

func TestUpdateItineraryByEditor(t *testing.T) {
	f := newItineraryFixture(generator.MockGenerator{})
	ctx := context.Background()
	it, err := f.svc.Create(ctx, f.owner.ID, lisbonRequest())
	if err != nil {
		t.Fatal(err)
	}
	editor := f.users.add("Bia", "bia@example.com", false)
	viewer := f.users.add("Caio", "caio@example.com", false)
	if _, _, err := f.svc.AddCollaborator(ctx, f.owner.ID, it.ID, request_models.AddCollaboratorRequest{Email: "BIA@example.com", Permission: "edit"}); err != nil {
		t.Fatal(err)
	}
	if _, _, err := f.svc.AddCollaborator(ctx, f.owner.ID, it.ID, request_models.AddCollaboratorRequest{Email: "caio@example.com"}); err != nil {
		t.Fatal(err)
	}

	updated, err := f.svc.Update(ctx, editor.ID, it.ID, request_models.UpdateItineraryRequest{
		EndDate: ptr("2024-03-10"),
		Status:  ptr(string(db_models.StatusCompleted)),
	})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Duration != 10 || *updated.LastEditedBy != editor.ID {
		t.Errorf("duration = %d, editor = %v", updated.Duration, updated.LastEditedBy)
	}
	if updated.Title != "Lisboa em março" {
		t.Errorf("absent field changed: title = %q", updated.Title)
	}

	if _, err := f.svc.Update(ctx, viewer.ID, it.ID, request_models.UpdateItineraryRequest{Title: ptr("x")}); !errors.Is(err, utils.ErrForbidden) {
		t.Errorf("viewer update error = %v", err)
	}
	if _, err := f.svc.Update(ctx, editor.ID, it.ID, request_models.UpdateItineraryRequest{StartDate: ptr("2024-04-01")}); !errors.Is(err, utils.ErrInvalidInput) {
		t.Errorf("start after end error = %v", err)
	}

	detail, err := f.svc.Get(ctx, viewer.ID, it.ID)
	if err != nil {
		t.Fatal(err)
	}
	if detail.CanEdit || len(detail.Collaborators) != 2 || detail.Collaborators[0].Name != "Bia" {
		t.Errorf("detail = %+v", detail)
	}
}

func TestAddCollaboratorErrors(t *testing.T) {
	f := newItineraryFixture(generator.MockGenerator{})
	ctx := context.Background()
	it, err := f.svc.Create(ctx, f.owner.ID, lisbonRequest())
	if err != nil {
		t.Fatal(err)
	}
	friend := f.users.add("Bia", "bia@example.com", false)

	tests := []struct {
		name  string
		actor uuid.UUID
		email string
		want  error
	}{
		{"unknown email", f.owner.ID, "ninguem@example.com", utils.ErrUserNotFound},
		{"owner as collaborator", f.owner.ID, "ana@example.com", utils.ErrSelfCollaborator},
		{"not the owner", friend.ID, "ana@example.com", utils.ErrNotOwner},
		{"first add", f.owner.ID, "bia@example.com", nil},
		{"second add", f.owner.ID, "bia@example.com", utils.ErrAlreadyCollaborator},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := f.svc.AddCollaborator(ctx, tt.actor, it.ID, request_models.AddCollaboratorRequest{Email: tt.email})
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}

	stored := f.itineraries.get(it.ID)
	if c, ok := stored.Collaborator(friend.ID); !ok || c.Permission != db_models.PermissionView {
		t.Errorf("collaborator = %+v, %v", c, ok)
	}

	after, err := f.svc.RemoveCollaborator(ctx, f.owner.ID, it.ID, friend.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(after.Collaborators) != 0 {
		t.Errorf("collaborators left = %d", len(after.Collaborators))
	}
}

func TestDuplicateAndDelete(t *testing.T) {
	f := newItineraryFixture(generator.MockGenerator{})
	ctx := context.Background()

	src := trip(f.owner.ID, db_models.StatusCompleted, 1000, 150)
	src.Title = "Roma"
	src.IsPublic = true
	src.Views = 40
	src.Photos = []string{"https://img.example.com/1.jpg"}
	src.Likes = []string{uuid.NewString()}
	src.Expenses = []db_models.Expense{{ID: uuid.New(), Amount: 150}}
	original := f.itineraries.put(src)

	other := f.users.add("Bia", "bia@example.com", false)
	dup, err := f.svc.Duplicate(ctx, other.ID, original.ID)
	if err != nil {
		t.Fatal(err)
	}
	if dup.Title != "Roma (cópia)" || dup.OwnerID != other.ID || dup.ID == original.ID {
		t.Errorf("duplicate = %q owner %v", dup.Title, dup.OwnerID)
	}
	if dup.Status != db_models.StatusDraft || dup.IsPublic || dup.Views != 0 || len(dup.Photos) != 0 || len(dup.Likes) != 0 {
		t.Errorf("duplicate carried social state: %+v", dup)
	}
	if len(dup.Expenses) != 1 || dup.Budget.Spent != 150 {
		t.Errorf("expenses = %d spent = %v", len(dup.Expenses), dup.Budget.Spent)
	}

	if err := f.svc.Delete(ctx, other.ID, original.ID); !errors.Is(err, utils.ErrNotOwner) {
		t.Errorf("non-owner delete error = %v", err)
	}
	if err := f.svc.Delete(ctx, f.owner.ID, original.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Get(ctx, f.owner.ID, original.ID); !errors.Is(err, utils.ErrItineraryNotFound) {
		t.Errorf("get after delete error = %v", err)
	}
}

func TestListItinerariesPaginates(t *testing.T) {
	f := newItineraryFixture(generator.MockGenerator{})
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		f.itineraries.put(trip(f.owner.ID, db_models.StatusDraft, 100, 0))
	}
	f.itineraries.put(trip(uuid.New(), db_models.StatusDraft, 100, 0))

	list, err := f.svc.List(ctx, f.owner.ID, repositories.ListOptions{Page: 2, Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(list.Itineraries) != 1 || list.Pagination.Total != 3 || list.Pagination.Pages != 2 {
		t.Errorf("list = %d items, pagination %+v", len(list.Itineraries), list.Pagination)
	}
	if list.Pagination.HasNext || !list.Pagination.HasPrev {
		t.Errorf("pagination flags = %+v", list.Pagination)
	}
}

func TestClampPage(t *testing.T) {
	tests := []struct{ page, limit, wantPage, wantLimit int }{
		{0, 0, 1, DefaultPageLimit},
		{3, 500, 3, MaxPageLimit},
		{2, 5, 2, 5},
	}
	for _, tt := range tests {
		p, l := ClampPage(tt.page, tt.limit, DefaultPageLimit, MaxPageLimit)
		if p != tt.wantPage || l != tt.wantLimit {
			t.Errorf("ClampPage(%d, %d) = %d, %d", tt.page, tt.limit, p, l)
		}
	}
}

func TestAddPhotosSchedulesCheckForOwner(t *testing.T) {
	f := newItineraryFixture(generator.MockGenerator{})
	ctx := context.Background()
	it := f.itineraries.put(trip(f.owner.ID, db_models.StatusDraft, 100, 0))

	updated, err := f.svc.AddPhotos(ctx, f.owner.ID, it.ID, []string{"https://a/1.jpg", "https://a/2.jpg"})
	if err != nil {
		t.Fatal(err)
	}
	if len(updated.Photos) != 2 || !f.publisher.checked(f.owner.ID) {
		t.Errorf("photos = %v", updated.Photos)
	}
}
