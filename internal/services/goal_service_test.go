package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/goaltrackhq/goaltrack-backend/internal/dto"
	"github.com/goaltrackhq/goaltrack-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func newGoalFixture(t *testing.T) (*gorm.DB, *GoalService, *models.User) {
	t.Helper()
	db := newTestDB(t)
	auth := NewAuthService(db, newTestConfig())
	user := registerTestUser(t, auth, "owner@example.com")
	return db, NewGoalService(db), user
}

func createTestGoal(t *testing.T, goals *GoalService, ownerID uuid.UUID, repeatable bool) *models.Goal {
	t.Helper()
	goal, err := goals.Create(ownerID, &dto.CreateGoalRequest{
		Description: "Run 5k",
		Points:      float64Ptr(10),
		Mulct:       float64Ptr(2),
		Deadline:    "2025-01-01",
		Repeatable:  repeatable,
	})
	if err != nil {
		t.Fatalf("create goal: %v", err)
	}
	return goal
}

func TestCreateGoalRequiresFields(t *testing.T) {
	_, goals, user := newGoalFixture(t)

	cases := []dto.CreateGoalRequest{
		{Points: float64Ptr(1), Mulct: float64Ptr(1), Deadline: "soon"},
		{Description: "d", Mulct: float64Ptr(1), Deadline: "soon"},
		{Description: "d", Points: float64Ptr(1), Deadline: "soon"},
		{Description: "d", Points: float64Ptr(1), Mulct: float64Ptr(1)},
	}
	for i, req := range cases {
		if _, err := goals.Create(user.ID, &req); !errors.Is(err, ErrMissingGoalFields) {
			t.Fatalf("case %d: expected ErrMissingGoalFields, got %v", i, err)
		}
	}
}

func TestCreateGoalKeepsDeadlineOpaque(t *testing.T) {
	_, goals, user := newGoalFixture(t)

	goal, err := goals.Create(user.ID, &dto.CreateGoalRequest{
		Description: "whatever",
		Points:      float64Ptr(-3),
		Mulct:       float64Ptr(0),
		Deadline:    "not-a-date at all",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if goal.Deadline != "not-a-date at all" {
		t.Fatalf("deadline rewritten: %q", goal.Deadline)
	}
	if goal.Points != -3 {
		t.Fatalf("negative points rejected: %v", goal.Points)
	}
}

func TestCompleteNonRepeatableGoalConsumesSource(t *testing.T) {
	_, goals, user := newGoalFixture(t)
	goal := createTestGoal(t, goals, user.ID, false)

	snapshot, err := goals.Complete(user.ID, goal.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}

	if snapshot.ID == goal.ID {
		t.Fatal("snapshot must carry its own id")
	}
	if snapshot.Description != goal.Description ||
		snapshot.Points != goal.Points ||
		snapshot.Mulct != goal.Mulct ||
		snapshot.Deadline != goal.Deadline ||
		snapshot.UserID != goal.UserID {
		t.Fatalf("snapshot does not mirror source goal: %+v", snapshot)
	}
	if snapshot.ExecutionDate <= 0 {
		t.Fatalf("expected completion timestamp, got %d", snapshot.ExecutionDate)
	}

	if _, err := goals.FindByID(user.ID, goal.ID); !errors.Is(err, ErrGoalNotFound) {
		t.Fatalf("source goal should be gone, got %v", err)
	}

	completed, err := goals.ListCompleted(user.ID)
	if err != nil {
		t.Fatalf("list completed: %v", err)
	}
	if len(completed) != 1 {
		t.Fatalf("expected exactly one snapshot, got %d", len(completed))
	}

	// A second completion finds nothing and must not add a snapshot.
	if _, err := goals.Complete(user.ID, goal.ID); !errors.Is(err, ErrGoalNotFound) {
		t.Fatalf("expected ErrGoalNotFound on re-complete, got %v", err)
	}
	completed, _ = goals.ListCompleted(user.ID)
	if len(completed) != 1 {
		t.Fatalf("re-complete added a snapshot: %d", len(completed))
	}
}

func TestCompleteRepeatableGoalLeavesSourceInPlace(t *testing.T) {
	_, goals, user := newGoalFixture(t)
	goal := createTestGoal(t, goals, user.ID, true)

	const n = 3
	for i := 0; i < n; i++ {
		if _, err := goals.Complete(user.ID, goal.ID); err != nil {
			t.Fatalf("complete %d: %v", i, err)
		}
	}

	if _, err := goals.FindByID(user.ID, goal.ID); err != nil {
		t.Fatalf("repeatable goal should survive completion: %v", err)
	}

	completed, err := goals.ListCompleted(user.ID)
	if err != nil {
		t.Fatalf("list completed: %v", err)
	}
	if len(completed) != n {
		t.Fatalf("expected %d snapshots, got %d", n, len(completed))
	}
}

func TestCompleteLosesRaceWhenSourceAlreadyConsumed(t *testing.T) {
	db, goals, user := newGoalFixture(t)
	goal := createTestGoal(t, goals, user.ID, false)

	// Consume the source row between the workflow's read and its delete,
	// the way a second completion winning the race would.
	consumed := false
	err := db.Callback().Delete().Before("gorm:delete").Register("goal_service_test:consume_source", func(tx *gorm.DB) {
		if consumed || tx.Statement.Table != "goals" {
			return
		}
		consumed = true
		if err := tx.Session(&gorm.Session{NewDB: true}).Exec("DELETE FROM goals WHERE id = ?", goal.ID).Error; err != nil {
			t.Errorf("consume source row: %v", err)
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	if _, err := goals.Complete(user.ID, goal.ID); !errors.Is(err, ErrGoalAlreadyCompleted) {
		t.Fatalf("expected ErrGoalAlreadyCompleted, got %v", err)
	}
	if !consumed {
		t.Fatal("source row was never consumed")
	}

	// The losing transaction must roll back its snapshot.
	completed, err := goals.ListCompleted(user.ID)
	if err != nil {
		t.Fatalf("list completed: %v", err)
	}
	if len(completed) != 0 {
		t.Fatalf("lost race persisted %d snapshot(s)", len(completed))
	}
}

func TestCompletedHistorySurvivesSourceDeletion(t *testing.T) {
	_, goals, user := newGoalFixture(t)
	goal := createTestGoal(t, goals, user.ID, true)

	if _, err := goals.Complete(user.ID, goal.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if err := goals.Delete(user.ID, goal.ID); err != nil {
		t.Fatalf("delete source: %v", err)
	}

	completed, err := goals.ListCompleted(user.ID)
	if err != nil {
		t.Fatalf("list completed: %v", err)
	}
	if len(completed) != 1 {
		t.Fatalf("history lost with source goal: %d records", len(completed))
	}
}

func TestDeleteGoalIsNotIdempotent(t *testing.T) {
	_, goals, user := newGoalFixture(t)
	goal := createTestGoal(t, goals, user.ID, false)

	if err := goals.Delete(user.ID, goal.ID); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := goals.Delete(user.ID, goal.ID); !errors.Is(err, ErrGoalNotFound) {
		t.Fatalf("second delete: expected ErrGoalNotFound, got %v", err)
	}
}

func TestGoalAccessIsScopedToOwner(t *testing.T) {
	db, goals, owner := newGoalFixture(t)
	auth := NewAuthService(db, newTestConfig())
	stranger := registerTestUser(t, auth, "stranger@example.com")

	goal := createTestGoal(t, goals, owner.ID, false)

	if _, err := goals.FindByID(stranger.ID, goal.ID); !errors.Is(err, ErrGoalNotFound) {
		t.Fatalf("stranger lookup: expected ErrGoalNotFound, got %v", err)
	}
	if err := goals.Delete(stranger.ID, goal.ID); !errors.Is(err, ErrGoalNotFound) {
		t.Fatalf("stranger delete: expected ErrGoalNotFound, got %v", err)
	}
	if _, err := goals.Complete(stranger.ID, goal.ID); !errors.Is(err, ErrGoalNotFound) {
		t.Fatalf("stranger complete: expected ErrGoalNotFound, got %v", err)
	}

	list, err := goals.ListByOwner(stranger.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("stranger sees %d foreign goals", len(list))
	}
}

func TestDeleteCompletedGoals(t *testing.T) {
	_, goals, user := newGoalFixture(t)

	for i := 0; i < 3; i++ {
		goal, err := goals.Create(user.ID, &dto.CreateGoalRequest{
			Description: fmt.Sprintf("goal %d", i),
			Points:      float64Ptr(1),
			Mulct:       float64Ptr(1),
			Deadline:    "2025-06-01",
		})
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		if _, err := goals.Complete(user.ID, goal.ID); err != nil {
			t.Fatalf("complete %d: %v", i, err)
		}
	}

	completed, _ := goals.ListCompleted(user.ID)
	if len(completed) != 3 {
		t.Fatalf("expected 3 snapshots, got %d", len(completed))
	}

	if err := goals.DeleteCompleted(user.ID, completed[0].ID); err != nil {
		t.Fatalf("delete one: %v", err)
	}
	if err := goals.DeleteCompleted(user.ID, completed[0].ID); !errors.Is(err, ErrCompletedGoalNotFound) {
		t.Fatalf("second delete: expected ErrCompletedGoalNotFound, got %v", err)
	}

	deleted, err := goals.DeleteAllCompleted(user.ID)
	if err != nil {
		t.Fatalf("bulk delete: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("expected 2 deleted, got %d", deleted)
	}

	// Bulk delete with nothing left still succeeds with a zero count.
	deleted, err = goals.DeleteAllCompleted(user.ID)
	if err != nil {
		t.Fatalf("empty bulk delete: %v", err)
	}
	if deleted != 0 {
		t.Fatalf("expected 0 deleted, got %d", deleted)
	}
}
