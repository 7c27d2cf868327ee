package test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"

	"rollcall/internal/activity"
	activitystore "rollcall/internal/activity/store"
	activitybackend "rollcall/internal/activity/store/activity"
	auditmemory "rollcall/internal/audit/store/memory"
	"rollcall/internal/audit/publisher"
	"rollcall/pkg/platform/middleware/requestid"
	"rollcall/pkg/platform/middleware/requesttime"
	"rollcall/pkg/testutil"
)

type activityDetails struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"maxParticipants"`
	Participants    []string `json:"participants"`
}

func newSeededRouter(t *testing.T) (http.Handler, *publisher.Publisher) {
	t.Helper()

	store := activitybackend.NewInMemory()
	if err := activitystore.SeedDefaultCatalog(context.Background(), store); err != nil {
		t.Fatalf("failed to seed catalog: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	auditPublisher := publisher.NewPublisher(auditmemory.NewInMemoryStore(), publisher.WithLogger(logger))
	t.Cleanup(auditPublisher.Close)

	svc := activity.NewService(store,
		activity.WithLogger(logger),
		activity.WithAuditPublisher(auditPublisher),
	)
	h := activity.NewHandler(svc, logger)

	router := chi.NewRouter()
	router.Use(requestid.Middleware)
	router.Use(requesttime.Middleware)
	h.Register(router)
	return router, auditPublisher
}

func TestActivityAPI(t *testing.T) {
	testutil.Given(t, "a freshly seeded activity directory", func(t *testing.T) {
		router, auditPublisher := newSeededRouter(t)

		testutil.When(t, "listing activities", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/api/activities"))

			testutil.Then(t, "the seed catalog is returned", func(t *testing.T) {
				testutil.AssertStatus(t, rr, http.StatusOK)
				catalog := *testutil.UnmarshalResponse[map[string]activityDetails](t, rr)
				if len(catalog) != 7 {
					t.Fatalf("expected 7 seeded activities, got %d", len(catalog))
				}
				chess, ok := catalog["Chess Club"]
				if !ok {
					t.Fatal("expected Chess Club in catalog")
				}
				if chess.MaxParticipants != 12 {
					t.Fatalf("expected Chess Club capacity 12, got %d", chess.MaxParticipants)
				}
				if len(chess.Participants) != 2 {
					t.Fatalf("expected 2 seeded participants, got %v", chess.Participants)
				}
				if got := catalog["Gym Class"].Participants; got == nil || len(got) != 0 {
					t.Fatalf("expected Gym Class roster to be an empty array, got %v", got)
				}
			})
		})

		testutil.When(t, "a student signs up for Chess Club", func(t *testing.T) {
			req := testutil.NewJSONRequest(t, http.MethodPost, "/api/activities/Chess%20Club/signup",
				map[string]string{"email": "a@x.edu"})
			rr := testutil.DoRequest(router, req)

			testutil.Then(t, "the signup is confirmed and visible", func(t *testing.T) {
				testutil.AssertStatus(t, rr, http.StatusOK)
				resp := *testutil.UnmarshalResponse[map[string]string](t, rr)
				if resp["message"] != "Signed up a@x.edu for Chess Club" {
					t.Fatalf("unexpected message %q", resp["message"])
				}

				list := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/api/activities"))
				catalog := *testutil.UnmarshalResponse[map[string]activityDetails](t, list)
				roster := catalog["Chess Club"].Participants
				if len(roster) != 3 || roster[2] != "a@x.edu" {
					t.Fatalf("expected a@x.edu appended to roster, got %v", roster)
				}
			})

			testutil.Then(t, "an audit event is recorded", func(t *testing.T) {
				events, err := auditPublisher.ListByActivity(context.Background(), "Chess Club")
				if err != nil {
					t.Fatalf("failed to list audit events: %v", err)
				}
				if len(events) == 0 {
					t.Fatal("expected at least one audit event for Chess Club")
				}
			})
		})

		testutil.When(t, "the same student signs up again", func(t *testing.T) {
			req := testutil.NewJSONRequest(t, http.MethodPost, "/api/activities/Chess%20Club/signup",
				map[string]string{"email": "A@X.EDU"})
			rr := testutil.DoRequest(router, req)

			testutil.Then(t, "the duplicate is rejected", func(t *testing.T) {
				testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")
			})
		})

		testutil.When(t, "the student unregisters", func(t *testing.T) {
			req := testutil.NewRequest(t, http.MethodDelete, "/api/activities/Chess%20Club/unregister?email=a%40x.edu")
			rr := testutil.DoRequest(router, req)

			testutil.Then(t, "the roster returns to its seeded state", func(t *testing.T) {
				testutil.AssertStatus(t, rr, http.StatusOK)
				resp := *testutil.UnmarshalResponse[map[string]string](t, rr)
				if resp["message"] != "Unregistered a@x.edu from Chess Club" {
					t.Fatalf("unexpected message %q", resp["message"])
				}

				list := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/api/activities"))
				catalog := *testutil.UnmarshalResponse[map[string]activityDetails](t, list)
				if len(catalog["Chess Club"].Participants) != 2 {
					t.Fatalf("expected seeded roster restored, got %v", catalog["Chess Club"].Participants)
				}
			})
		})

		testutil.When(t, "a student targets an unknown activity", func(t *testing.T) {
			req := testutil.NewJSONRequest(t, http.MethodPost, "/api/activities/Water%20Polo/signup",
				map[string]string{"email": "a@x.edu"})
			rr := testutil.DoRequest(router, req)

			testutil.Then(t, "the signup is rejected as not found", func(t *testing.T) {
				testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
			})
		})

		testutil.When(t, "a student unregisters without ever signing up", func(t *testing.T) {
			req := testutil.NewRequest(t, http.MethodDelete, "/api/activities/Math%20Club/unregister?email=ghost%40x.edu")
			rr := testutil.DoRequest(router, req)

			testutil.Then(t, "the unregistration is rejected as not found", func(t *testing.T) {
				testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
			})
		})
	})
}
