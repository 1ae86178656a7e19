package set

import (
	"errors"
	"fmt"

	"falconsphere/internal/models"
	"falconsphere/pkg/filter"
)

var (
	ErrNotOwner = errors.New("only the set owner can modify it")
	ErrNoSlides = errors.New("a set needs at least one slide")
)

type Service struct {
	repo   *Repository
	filter *filter.Filter
}

func NewService(repo *Repository, profanity *filter.Filter) *Service {
	return &Service{repo: repo, filter: profanity}
}

// Create validates and persists a new set. Nothing is written when
// validation fails.
func (s *Service) Create(ownerID uint, set *models.Set) error {
	set.OwnerID = ownerID
	if err := validateSet(set, s.filter); err != nil {
		return err
	}
	for i := range set.Slides {
		set.Slides[i].Position = i
	}
	return s.repo.Create(set)
}

// Update validates and saves an edited set. Only the owner may edit.
func (s *Service) Update(userID uint, set *models.Set) error {
	existing, err := s.repo.GetByID(set.ID)
	if err != nil {
		return err
	}
	if existing.OwnerID != userID {
		return ErrNotOwner
	}
	set.OwnerID = existing.OwnerID
	if err := validateSet(set, s.filter); err != nil {
		return err
	}
	return s.repo.Update(set)
}

func (s *Service) Delete(userID, setID uint) error {
	existing, err := s.repo.GetByID(setID)
	if err != nil {
		return err
	}
	if existing.OwnerID != userID {
		return ErrNotOwner
	}
	return s.repo.Delete(setID)
}

func (s *Service) Get(setID uint) (*models.Set, error) {
	return s.repo.GetByID(setID)
}

func (s *Service) ListByOwner(ownerID uint) ([]models.Set, error) {
	return s.repo.GetByOwner(ownerID)
}

func (s *Service) Search(query string) ([]models.Set, error) {
	return s.repo.Search(query, 50)
}

// Copy duplicates an existing set into the caller's library, replacing the
// old client-side "copiedSet" handoff.
func (s *Service) Copy(userID, setID uint) (*models.Set, error) {
	src, err := s.repo.GetByID(setID)
	if err != nil {
		return nil, err
	}

	dup := &models.Set{
		Title:   src.Title + " (copy)",
		OwnerID: userID,
		Slides:  make([]models.Slide, len(src.Slides)),
	}
	for i, slide := range src.Slides {
		dup.Slides[i] = models.Slide{
			Position:         i,
			Question:         slide.Question,
			QuestionType:     slide.QuestionType,
			Options:          slide.Options,
			CorrectAnswer:    slide.CorrectAnswer,
			CorrectAnswers:   slide.CorrectAnswers,
			OpenEndedAnswers: slide.OpenEndedAnswers,
			ImageData:        slide.ImageData,
		}
	}
	if err := s.repo.Create(dup); err != nil {
		return nil, err
	}
	return dup, nil
}

// validateSet enforces the save rules: non-empty profanity-free title and
// questions, and per question type, a designated correct answer that
// actually exists among the slide's options.
func validateSet(set *models.Set, profanity *filter.Filter) error {
	if set.Title == "" {
		return errors.New("title is required")
	}
	if len(set.Slides) == 0 {
		return ErrNoSlides
	}
	if err := profanity.Check(set.Title); err != nil {
		return err
	}

	for i := range set.Slides {
		if err := validateSlide(&set.Slides[i], profanity); err != nil {
			return fmt.Errorf("slide %d: %w", i+1, err)
		}
	}
	return nil
}

func validateSlide(slide *models.Slide, profanity *filter.Filter) error {
	if slide.Question == "" {
		return errors.New("question is required")
	}
	if err := profanity.Check(slide.Question); err != nil {
		return err
	}
	if err := profanity.Check(slide.Options...); err != nil {
		return err
	}

	if slide.QuestionType == "" {
		slide.QuestionType = models.MultipleChoice
	}

	switch slide.QuestionType {
	case models.MultipleChoice:
		if len(slide.Options) == 0 {
			return errors.New("at least one option is required")
		}
		if !contains(slide.Options, slide.CorrectAnswer) {
			return errors.New("the correct answer must be one of the slide's options")
		}
	case models.MultipleCorrect:
		if len(slide.CorrectAnswers) == 0 {
			return errors.New("at least one correct answer is required")
		}
		for _, answer := range slide.CorrectAnswers {
			if !contains(slide.Options, answer) {
				return errors.New("the correct answer must be one of the slide's options")
			}
		}
	case models.OpenEnded:
		if len(slide.OpenEndedAnswers) == 0 {
			return errors.New("at least one accepted answer is required")
		}
		if err := profanity.Check(slide.OpenEndedAnswers...); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown question type %q", slide.QuestionType)
	}
	return nil
}

func contains(options []string, answer string) bool {
	for _, opt := range options {
		if opt == answer {
			return true
		}
	}
	return false
}
