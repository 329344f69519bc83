package store

import (
	"context"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table names.
const (
	tableUsers       = "users"
	tableProfiles    = "profiles"
	tableTopics      = "topics"
	tableSections    = "sections"
	tableQuizzes     = "quizzes"
	tableQuestions   = "questions"
	tableChoices     = "choices"
	tableAnswers     = "student_answers"
	tableChat        = "chat_messages"
	tableLLMRequests = "llm_request_events"
)

func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return err
	}
	return m.Create(ctx, tables()...)
}

func pk() *schema.Column {
	return &schema.Column{Name: "id", Type: field.TypeInt64, Increment: true}
}

func text(name string) *schema.Column {
	return &schema.Column{Name: name, Type: field.TypeString, Size: 2147483647, Default: ""}
}

func fk(symbol string, col *schema.Column, ref *schema.Table, onDelete schema.ReferenceOption) *schema.ForeignKey {
	return &schema.ForeignKey{
		Symbol:     symbol,
		Columns:    []*schema.Column{col},
		RefTable:   ref,
		RefColumns: []*schema.Column{ref.PrimaryKey[0]},
		OnDelete:   onDelete,
	}
}

// tables declares the full schema. Columns are listed in the order the
// repositories select them.
func tables() []*schema.Table {
	usersID := pk()
	usersEmail := &schema.Column{Name: "email", Type: field.TypeString, Unique: true}
	users := &schema.Table{
		Name: tableUsers,
		Columns: []*schema.Column{
			usersID,
			usersEmail,
			text("name"),
			{Name: "created_at", Type: field.TypeTime},
		},
		PrimaryKey: []*schema.Column{usersID},
	}

	profilesID := pk()
	profilesUser := &schema.Column{Name: "user_id", Type: field.TypeInt64, Unique: true}
	profiles := &schema.Table{
		Name: tableProfiles,
		Columns: []*schema.Column{
			profilesID,
			profilesUser,
			{Name: "age", Type: field.TypeInt, Nullable: true},
			text("city"),
			text("country"),
			text("cultural_background"),
			text("hobbies"),
			text("learning_styles"),
		},
		PrimaryKey: []*schema.Column{profilesID},
	}
	profiles.ForeignKeys = []*schema.ForeignKey{
		fk("profiles_users_profile", profilesUser, users, schema.Cascade),
	}

	topicsID := pk()
	topicsTitle := &schema.Column{Name: "title", Type: field.TypeString, Unique: true}
	topicsOwner := &schema.Column{Name: "owner_id", Type: field.TypeInt64, Nullable: true}
	topicsCreated := &schema.Column{Name: "created_at", Type: field.TypeTime}
	topicsRecommended := &schema.Column{Name: "is_recommended", Type: field.TypeBool, Default: false}
	topics := &schema.Table{
		Name: tableTopics,
		Columns: []*schema.Column{
			topicsID,
			topicsTitle,
			text("description"),
			{Name: "duration", Type: field.TypeInt, Default: 0},
			topicsRecommended,
			{Name: "supplementary_prompts", Type: field.TypeString, Size: 2147483647, Default: "[]"},
			topicsOwner,
			topicsCreated,
			{Name: "updated_at", Type: field.TypeTime},
		},
		PrimaryKey: []*schema.Column{topicsID},
		Annotation: &entsql.Annotation{
			Checks: map[string]string{"topic_duration_non_negative": "duration >= 0"},
		},
	}
	topics.ForeignKeys = []*schema.ForeignKey{
		fk("topics_users_topics", topicsOwner, users, schema.SetNull),
	}
	topics.Indexes = []*schema.Index{
		{Name: "topic_is_recommended_created_at", Columns: []*schema.Column{topicsRecommended, topicsCreated}},
	}

	sectionsID := pk()
	sectionsTopic := &schema.Column{Name: "topic_id", Type: field.TypeInt64}
	sectionsPos := &schema.Column{Name: "position", Type: field.TypeInt, Default: 0}
	sections := &schema.Table{
		Name: tableSections,
		Columns: []*schema.Column{
			sectionsID,
			sectionsTopic,
			text("title"),
			text("content"),
			sectionsPos,
		},
		PrimaryKey: []*schema.Column{sectionsID},
	}
	sections.ForeignKeys = []*schema.ForeignKey{
		fk("sections_topics_sections", sectionsTopic, topics, schema.Cascade),
	}
	sections.Indexes = []*schema.Index{
		{Name: "section_topic_id_position", Columns: []*schema.Column{sectionsTopic, sectionsPos}},
	}

	quizzesID := pk()
	quizzesTopic := &schema.Column{Name: "topic_id", Type: field.TypeInt64, Nullable: true}
	quizzesSection := &schema.Column{Name: "section_id", Type: field.TypeInt64, Nullable: true}
	quizzes := &schema.Table{
		Name: tableQuizzes,
		Columns: []*schema.Column{
			quizzesID,
			quizzesTopic,
			quizzesSection,
			{Name: "is_graded", Type: field.TypeBool, Default: false},
		},
		PrimaryKey: []*schema.Column{quizzesID},
		Annotation: &entsql.Annotation{
			Checks: map[string]string{
				"quiz_single_owner": "(topic_id IS NULL) + (section_id IS NULL) = 1",
				"quiz_graded_topic": "NOT is_graded OR topic_id IS NOT NULL",
			},
		},
	}
	quizzes.ForeignKeys = []*schema.ForeignKey{
		fk("quizzes_topics_quizzes", quizzesTopic, topics, schema.Cascade),
		fk("quizzes_sections_quiz", quizzesSection, sections, schema.Cascade),
	}
	quizzes.Indexes = []*schema.Index{
		{Name: "quiz_topic_id", Columns: []*schema.Column{quizzesTopic}},
		{Name: "quiz_section_id", Columns: []*schema.Column{quizzesSection}},
	}

	questionsID := pk()
	questionsQuiz := &schema.Column{Name: "quiz_id", Type: field.TypeInt64}
	questionsPos := &schema.Column{Name: "position", Type: field.TypeInt, Default: 0}
	questions := &schema.Table{
		Name: tableQuestions,
		Columns: []*schema.Column{
			questionsID,
			questionsQuiz,
			text("text"),
			{Name: "correct_answer_letter", Type: field.TypeString, Size: 1},
			questionsPos,
		},
		PrimaryKey: []*schema.Column{questionsID},
	}
	questions.ForeignKeys = []*schema.ForeignKey{
		fk("questions_quizzes_questions", questionsQuiz, quizzes, schema.Cascade),
	}
	questions.Indexes = []*schema.Index{
		{Name: "question_quiz_id_position", Columns: []*schema.Column{questionsQuiz, questionsPos}},
	}

	choicesID := pk()
	choicesQuestion := &schema.Column{Name: "question_id", Type: field.TypeInt64}
	choicesLetter := &schema.Column{Name: "letter", Type: field.TypeString, Size: 1}
	choices := &schema.Table{
		Name: tableChoices,
		Columns: []*schema.Column{
			choicesID,
			choicesQuestion,
			choicesLetter,
			text("text"),
		},
		PrimaryKey: []*schema.Column{choicesID},
	}
	choices.ForeignKeys = []*schema.ForeignKey{
		fk("choices_questions_choices", choicesQuestion, questions, schema.Cascade),
	}
	choices.Indexes = []*schema.Index{
		{Name: "choice_question_id_letter", Unique: true, Columns: []*schema.Column{choicesQuestion, choicesLetter}},
	}

	answersID := pk()
	answersUser := &schema.Column{Name: "user_id", Type: field.TypeInt64}
	answersQuestion := &schema.Column{Name: "question_id", Type: field.TypeInt64}
	answers := &schema.Table{
		Name: tableAnswers,
		Columns: []*schema.Column{
			answersID,
			answersUser,
			answersQuestion,
			{Name: "selected_letter", Type: field.TypeString, Size: 1},
			{Name: "is_correct", Type: field.TypeBool},
			{Name: "answered_at", Type: field.TypeTime},
		},
		PrimaryKey: []*schema.Column{answersID},
	}
	answers.ForeignKeys = []*schema.ForeignKey{
		fk("student_answers_users_answers", answersUser, users, schema.Cascade),
		fk("student_answers_questions_answers", answersQuestion, questions, schema.Cascade),
	}
	answers.Indexes = []*schema.Index{
		{Name: "student_answer_user_id_question_id", Columns: []*schema.Column{answersUser, answersQuestion}},
	}

	chatID := pk()
	chatUser := &schema.Column{Name: "user_id", Type: field.TypeInt64}
	chatTopic := &schema.Column{Name: "topic_id", Type: field.TypeInt64}
	chatCreated := &schema.Column{Name: "created_at", Type: field.TypeTime}
	chat := &schema.Table{
		Name: tableChat,
		Columns: []*schema.Column{
			chatID,
			chatUser,
			chatTopic,
			{Name: "sender", Type: field.TypeEnum, Enums: []string{"user", "ai"}},
			{Name: "chat_type", Type: field.TypeEnum, Enums: []string{
				"general_chat", "explanation_submission", "evaluation_feedback", "welcome_message",
			}},
			text("text"),
			chatCreated,
		},
		PrimaryKey: []*schema.Column{chatID},
	}
	chat.ForeignKeys = []*schema.ForeignKey{
		fk("chat_messages_users_messages", chatUser, users, schema.Cascade),
		fk("chat_messages_topics_messages", chatTopic, topics, schema.Cascade),
	}
	chat.Indexes = []*schema.Index{
		{Name: "chat_message_user_id_topic_id_created_at", Columns: []*schema.Column{chatUser, chatTopic, chatCreated}},
	}

	llmID := pk()
	llmTimestamp := &schema.Column{Name: "timestamp", Type: field.TypeTime}
	llmProvider := &schema.Column{Name: "provider", Type: field.TypeString}
	llmPurpose := &schema.Column{Name: "purpose", Type: field.TypeString}
	llm := &schema.Table{
		Name: tableLLMRequests,
		Columns: []*schema.Column{
			llmID,
			llmTimestamp,
			llmProvider,
			{Name: "model", Type: field.TypeString},
			llmPurpose,
			{Name: "input_tokens", Type: field.TypeInt, Default: 0},
			{Name: "output_tokens", Type: field.TypeInt, Default: 0},
			{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
			{Name: "success", Type: field.TypeBool},
			text("error_message"),
			text("request_body"),
			text("response_body"),
		},
		PrimaryKey: []*schema.Column{llmID},
	}
	llm.Indexes = []*schema.Index{
		{Name: "llm_request_event_timestamp", Columns: []*schema.Column{llmTimestamp}},
		{Name: "llm_request_event_provider", Columns: []*schema.Column{llmProvider}},
		{Name: "llm_request_event_purpose", Columns: []*schema.Column{llmPurpose}},
	}

	return []*schema.Table{users, profiles, topics, sections, quizzes, questions, choices, answers, chat, llm}
}
