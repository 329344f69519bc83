// Package seed fills an empty database with sample topics for local use.
package seed

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/biilim/biilim/internal/ingest"
	"github.com/biilim/biilim/internal/learn"
	"github.com/biilim/biilim/internal/logger"
	"github.com/biilim/biilim/internal/store"
)

// Sample is a topic title and description used for seeding.
type Sample struct {
	Title       string
	Description string
}

// Samples are the topics created by Run.
var Samples = []Sample{
	{"Introduction to Python", "Learn the fundamentals of Python programming, including syntax, data types, and control flow."},
	{"Web Development Basics", "An overview of core web technologies: HTML, CSS, and JavaScript."},
	{"Database Design Fundamentals", "Relational database design: normalization, schema creation, and SQL queries."},
	{"Machine Learning for Beginners", "A gentle introduction to supervised and unsupervised learning."},
	{"Data Structures and Algorithms", "Common data structures and algorithms for efficient problem-solving."},
	{"Object-Oriented Programming (OOP)", "Classes, objects, inheritance, and polymorphism."},
	{"Network Protocols Explained", "A guide to essential network protocols like TCP/IP, HTTP, and DNS."},
	{"Introduction to Cybersecurity", "Common threats, vulnerabilities, and prevention strategies."},
	{"Software Project Management", "Methodologies for managing software projects, from Agile to Waterfall."},
	{"Frontend Frameworks: A Comparison", "React, Vue, and Angular compared."},
}

// Duration and section count bounds, inclusive.
const (
	MinDuration = 30
	MaxDuration = 180
	MinSections = 3
	MaxSections = 7
)

// Options controls a seeding run.
type Options struct {
	// Reset deletes every topic before seeding.
	Reset bool

	// Rand drives durations and section counts. Nil uses a random source.
	Rand *rand.Rand
}

// Report summarizes a run.
type Report struct {
	Deleted int64
	Created []*learn.Topic
	Skipped []string
}

// Run creates the sample topics through the ingestion pipeline, owned by
// the first user when one exists. Titles that already exist are skipped.
func Run(ctx context.Context, s *store.Store, log *logger.Logger, opts Options) (*Report, error) {
	if log == nil {
		log = logger.Nop()
	}
	r := opts.Rand
	if r == nil {
		r = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	rep := &Report{}
	if opts.Reset {
		n, err := s.TopicRepo().DeleteAll(ctx)
		if err != nil {
			return nil, err
		}
		rep.Deleted = n
		log.Info("cleared topics", "deleted", n)
	}

	var ownerID *int64
	switch u, err := s.UserRepo().First(ctx); {
	case err == nil:
		ownerID = &u.ID
	case errors.Is(err, learn.ErrNotFound):
		log.Warn("no users found, seeded topics have no owner")
	default:
		return nil, err
	}

	ing := ingest.New(s, log)
	for _, sample := range Samples {
		t, err := ing.Ingest(ctx, ownerID, Topic(sample, r))
		var conflict *learn.ConflictError
		if errors.As(err, &conflict) {
			rep.Skipped = append(rep.Skipped, sample.Title)
			continue
		}
		if err != nil {
			return rep, fmt.Errorf("seed %q: %w", sample.Title, err)
		}
		rep.Created = append(rep.Created, t)
		log.Debug("seeded topic", "topic_id", t.ID, "title", t.Title, "sections", len(t.Sections))
	}
	return rep, nil
}

// Topic builds the generated shape for a sample: an introduction, numbered
// key concepts and a conclusion. Sample topics carry no questions.
func Topic(s Sample, r *rand.Rand) *learn.GeneratedTopic {
	n := MinSections + r.IntN(MaxSections-MinSections+1)
	t := &learn.GeneratedTopic{
		Title:       s.Title,
		Description: s.Description,
		Duration:    MinDuration + r.IntN(MaxDuration-MinDuration+1),
		Sections:    make([]learn.GeneratedSection, n),
	}
	for j := range n {
		name := fmt.Sprintf("Key Concept %d", j)
		switch j {
		case 0:
			name = "Introduction"
		case n - 1:
			name = "Conclusion"
		}
		title := fmt.Sprintf("Section %d: %s - %s", j+1, s.Title, name)
		t.Sections[j] = learn.GeneratedSection{
			Title:   title,
			Content: fmt.Sprintf("This is the content for %s. It explains the concepts discussed in this section.", title),
			Index:   j,
		}
	}
	return t
}
