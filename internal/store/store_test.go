package store

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/biilim/biilim/internal/learn"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// seedTopic writes a topic with one graded topic quiz holding one question
// and returns the topic and question ids.
func seedTopic(t *testing.T, s *Store, title string) (topicID, questionID int64) {
	t.Helper()
	err := s.InTx(t.Context(), func(tx *Tx) error {
		var err error
		topicID, err = tx.InsertTopic(t.Context(), learn.Topic{
			Title:    title,
			Duration: 30,
			SupplementaryPrompts: []learn.SupplementaryPrompt{
				{Style: "visual", Prompt: "Draw it"},
			},
		})
		if err != nil {
			return err
		}
		quizID, err := tx.InsertQuiz(t.Context(), learn.Quiz{Owner: learn.TopicOwner{TopicID: topicID}, IsGraded: true})
		if err != nil {
			return err
		}
		questionID, err = tx.InsertQuestion(t.Context(), learn.Question{QuizID: quizID, Text: "2+2?", CorrectAnswerLetter: "B"})
		if err != nil {
			return err
		}
		for _, l := range []string{"A", "B", "C", "D"} {
			if _, err := tx.InsertChoice(t.Context(), learn.Choice{QuestionID: questionID, Letter: l, Text: l}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("seed topic: %v", err)
	}
	return topicID, questionID
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	for _, table := range []string{
		tableUsers, tableProfiles, tableTopics, tableSections, tableQuizzes,
		tableQuestions, tableChoices, tableAnswers, tableChat, tableLLMRequests,
	} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestReopenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	s.Close()
	s, err = Open(path)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	s.Close()
}

func TestOpenFreshDatabase(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "fresh.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	var ddl string
	err = s.DB().QueryRow("SELECT sql FROM sqlite_master WHERE type='table' AND name=?", tableQuizzes).Scan(&ddl)
	if err != nil {
		t.Fatalf("quizzes ddl: %v", err)
	}
	if !strings.Contains(ddl, "section_id IS NULL") {
		t.Errorf("quizzes ddl missing owner check: %s", ddl)
	}

	topicID, _ := seedTopic(t, s, "Fresh")
	err = s.InTx(t.Context(), func(tx *Tx) error {
		sectionID, err := tx.InsertSection(t.Context(), learn.Section{TopicID: topicID, Title: "S"})
		if err != nil {
			return err
		}
		_, err = tx.InsertQuiz(t.Context(), learn.Quiz{Owner: learn.SectionOwner{SectionID: sectionID}})
		return err
	})
	if err != nil {
		t.Fatalf("section quiz: %v", err)
	}
}

func TestQuizChecksRejectInvalidOwnership(t *testing.T) {
	s := openTestStore(t)
	topicID, _ := seedTopic(t, s, "Checks")

	var sectionID int64
	err := s.InTx(t.Context(), func(tx *Tx) error {
		var err error
		sectionID, err = tx.InsertSection(t.Context(), learn.Section{TopicID: topicID, Title: "S"})
		return err
	})
	if err != nil {
		t.Fatalf("insert section: %v", err)
	}

	tests := []struct {
		name  string
		query string
		args  []any
	}{
		{"both owners", "INSERT INTO quizzes (topic_id, section_id, is_graded) VALUES (?, ?, 0)", []any{topicID, sectionID}},
		{"no owner", "INSERT INTO quizzes (topic_id, section_id, is_graded) VALUES (NULL, NULL, 0)", nil},
		{"graded section quiz", "INSERT INTO quizzes (topic_id, section_id, is_graded) VALUES (NULL, ?, 1)", []any{sectionID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.DB().Exec(tt.query, tt.args...); err == nil {
				t.Error("expected CHECK constraint violation")
			}
		})
	}
}

func TestTopicRoundTrip(t *testing.T) {
	s := openTestStore(t)
	topicID, questionID := seedTopic(t, s, "Fractions")
	repo := s.TopicRepo()

	got, err := repo.Get(t.Context(), topicID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Fractions" || got.Duration != 30 {
		t.Errorf("topic = %+v", got)
	}
	if len(got.SupplementaryPrompts) != 1 || got.SupplementaryPrompts[0] != (learn.SupplementaryPrompt{Style: "visual", Prompt: "Draw it"}) {
		t.Errorf("supplementary prompts = %+v", got.SupplementaryPrompts)
	}

	byTitle, err := repo.GetByTitle(t.Context(), "fractions")
	if err != nil || byTitle.ID != topicID {
		t.Errorf("GetByTitle = %v, %v", byTitle, err)
	}

	quiz, err := repo.QuizForTopic(t.Context(), topicID)
	if err != nil {
		t.Fatalf("quiz for topic: %v", err)
	}
	if !quiz.IsGraded || len(quiz.Questions) != 1 || quiz.Questions[0].ID != questionID {
		t.Fatalf("quiz = %+v", quiz)
	}
	if n := len(quiz.Questions[0].Choices); n != 4 {
		t.Errorf("choices = %d, want 4", n)
	}

	if _, err := repo.Get(t.Context(), topicID+100); !errors.Is(err, learn.ErrNotFound) {
		t.Errorf("missing topic: got %v", err)
	}
}

func TestTopicDeleteCascades(t *testing.T) {
	s := openTestStore(t)
	topicID, questionID := seedTopic(t, s, "Cascade")
	user, err := s.UserRepo().EnsureUser(t.Context(), "ada@example.com", "Ada")
	if err != nil {
		t.Fatal(err)
	}
	err = s.InTx(t.Context(), func(tx *Tx) error {
		_, err := tx.InsertAnswer(t.Context(), learn.StudentAnswer{UserID: user.ID, QuestionID: questionID, SelectedLetter: "B", IsCorrect: true})
		return err
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := s.TopicRepo().Delete(t.Context(), topicID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	for _, table := range []string{tableQuizzes, tableQuestions, tableChoices, tableAnswers} {
		var n int
		if err := s.DB().QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
			t.Fatal(err)
		}
		if n != 0 {
			t.Errorf("%s has %d rows after cascade delete", table, n)
		}
	}
	if err := s.TopicRepo().Delete(t.Context(), topicID); !errors.Is(err, learn.ErrNotFound) {
		t.Errorf("second delete: got %v", err)
	}
}

func TestInTxRollsBack(t *testing.T) {
	s := openTestStore(t)
	boom := errors.New("boom")
	err := s.InTx(t.Context(), func(tx *Tx) error {
		if _, err := tx.InsertTopic(t.Context(), learn.Topic{Title: "Ghost"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	topics, err := s.TopicRepo().List(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	if len(topics) != 0 {
		t.Errorf("expected no topics after rollback, got %d", len(topics))
	}
}

func TestRecommendedNewestFirst(t *testing.T) {
	s := openTestStore(t)
	err := s.InTx(t.Context(), func(tx *Tx) error {
		for _, tc := range []struct {
			title string
			rec   bool
		}{{"One", true}, {"Two", false}, {"Three", true}} {
			if _, err := tx.InsertTopic(t.Context(), learn.Topic{Title: tc.title, IsRecommended: tc.rec}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := s.TopicRepo().Recommended(t.Context(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Title != "Three" || got[1].Title != "One" {
		t.Errorf("recommended = %+v", got)
	}
}

func TestUsersAndProfiles(t *testing.T) {
	s := openTestStore(t)
	ctx := t.Context()

	u1, err := s.UserRepo().EnsureUser(ctx, "  Ada@Example.com ", "Ada")
	if err != nil {
		t.Fatal(err)
	}
	u2, err := s.UserRepo().EnsureUser(ctx, "ada@example.com", "")
	if err != nil {
		t.Fatal(err)
	}
	if u1.ID != u2.ID {
		t.Errorf("EnsureUser created a duplicate: %d vs %d", u1.ID, u2.ID)
	}

	profiles := s.ProfileRepo()
	empty, err := profiles.Get(ctx, u1.ID)
	if err != nil {
		t.Fatal(err)
	}
	if empty.UserID != u1.ID || empty.City != "" || empty.Age != nil {
		t.Errorf("expected empty profile, got %+v", empty)
	}

	age := 14
	want := learn.Profile{UserID: u1.ID, Age: &age, City: "Izmir", Hobbies: "chess", LearningStyles: "visual"}
	if err := profiles.Upsert(ctx, want); err != nil {
		t.Fatal(err)
	}
	want.City = "Ankara"
	if err := profiles.Upsert(ctx, want); err != nil {
		t.Fatal(err)
	}
	got, err := profiles.Get(ctx, u1.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.City != "Ankara" || got.Age == nil || *got.Age != 14 || got.LearningStyles != "visual" {
		t.Errorf("profile = %+v", got)
	}
}

func TestChatHistoryOrdered(t *testing.T) {
	s := openTestStore(t)
	topicID, _ := seedTopic(t, s, "Chat")
	user, err := s.UserRepo().EnsureUser(t.Context(), "bo@example.com", "Bo")
	if err != nil {
		t.Fatal(err)
	}
	repo := s.ChatRepo()
	for _, text := range []string{"first", "second", "third"} {
		m := &learn.ChatMessage{UserID: user.ID, TopicID: topicID, Sender: learn.SenderUser, Type: learn.ChatGeneral, Text: text}
		if err := repo.Append(t.Context(), m); err != nil {
			t.Fatal(err)
		}
		if m.ID == 0 {
			t.Error("expected id to be set")
		}
	}
	got, err := repo.History(t.Context(), user.ID, topicID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[0].Text != "first" || got[2].Text != "third" {
		t.Errorf("history = %+v", got)
	}
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i, purpose := range []string{"topic-gen", "chat", "chat"} {
		err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
			Provider:     "fixture",
			Model:        "fixture-1",
			Purpose:      purpose,
			InputTokens:  10 * (i + 1),
			OutputTokens: 5,
			LatencyMs:    100,
			Success:      true,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "chat"})
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 || events[0].ID < events[1].ID {
		t.Errorf("expected 2 chat events newest first, got %+v", events)
	}

	e, err := repo.GetLLMEvent(ctx, events[0].ID)
	if err != nil || e == nil || e.InputTokens != 30 {
		t.Errorf("GetLLMEvent = %+v, %v", e, err)
	}
	if e, _ := repo.GetLLMEvent(ctx, 999); e != nil {
		t.Error("expected nil for missing event")
	}

	usage, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(usage) != 2 || usage[0].Purpose != "chat" || usage[0].Calls != 2 || usage[0].InputTokens != 50 {
		t.Errorf("usage by purpose = %+v", usage)
	}

	models, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(models) != 1 || models[0].Calls != 3 {
		t.Errorf("usage by model = %+v", models)
	}
}
