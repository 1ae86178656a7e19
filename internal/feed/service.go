package feed

import (
	"errors"

	"gorm.io/gorm"

	"falconsphere/internal/models"
	"falconsphere/pkg/filter"
)

var (
	ErrNotAuthor   = errors.New("only the author can modify this post")
	ErrBadParent   = errors.New("parent reply does not belong to this question")
	ErrEmptyText   = errors.New("text is required")
	ErrBadEmoji    = errors.New("an emoji is required")
	ErrBadPage     = errors.New("page is out of range")
	ErrBadReaction = errors.New("reply does not belong to this question")
)

// QuestionsPerPage is the feed's fixed page size.
const QuestionsPerPage = 5

type Service struct {
	repo   *Repository
	filter *filter.Filter
}

func NewService(repo *Repository, profanity *filter.Filter) *Service {
	return &Service{repo: repo, filter: profanity}
}

func (s *Service) Create(authorID uint, text string, tags []string, difficulty string) (*models.Question, error) {
	if text == "" {
		return nil, ErrEmptyText
	}
	if err := s.filter.Check(text); err != nil {
		return nil, err
	}
	if err := s.filter.Check(tags...); err != nil {
		return nil, err
	}

	question := &models.Question{
		AuthorID:   authorID,
		Text:       text,
		Tags:       tags,
		Difficulty: difficulty,
	}
	if err := s.repo.Create(question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *Service) Get(id uint) (*models.Question, error) {
	return s.repo.GetByID(id)
}

func (s *Service) Update(userID, id uint, text string, tags []string, difficulty string) (*models.Question, error) {
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing.AuthorID != userID {
		return nil, ErrNotAuthor
	}
	if text == "" {
		return nil, ErrEmptyText
	}
	if err := s.filter.Check(text); err != nil {
		return nil, err
	}
	if err := s.filter.Check(tags...); err != nil {
		return nil, err
	}

	existing.Text = text
	existing.Tags = tags
	existing.Difficulty = difficulty
	if err := s.repo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *Service) Delete(userID, id uint) error {
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if existing.AuthorID != userID {
		return ErrNotAuthor
	}
	return s.repo.Delete(id)
}

// Page is one page of the filtered feed.
type Page struct {
	Questions  []models.Question `json:"questions"`
	Page       int               `json:"page"`
	TotalPages int               `json:"total_pages"`
	Total      int               `json:"total"`
}

// List returns one page of the filtered feed. Pages are 1-based.
func (s *Service) List(f ListFilter, page int) (*Page, error) {
	questions, err := s.repo.List(f)
	if err != nil {
		return nil, err
	}

	slice, totalPages, err := Paginate(questions, page, QuestionsPerPage)
	if err != nil {
		return nil, err
	}
	return &Page{
		Questions:  slice,
		Page:       page,
		TotalPages: totalPages,
		Total:      len(questions),
	}, nil
}

// Paginate slices items into 1-based pages of perPage. Twelve items at five
// per page means three pages with two items on the last.
func Paginate(items []models.Question, page, perPage int) ([]models.Question, int, error) {
	if perPage <= 0 {
		perPage = QuestionsPerPage
	}
	totalPages := (len(items) + perPage - 1) / perPage
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 1 || page > totalPages {
		return nil, totalPages, ErrBadPage
	}

	start := (page - 1) * perPage
	end := start + perPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], totalPages, nil
}

func (s *Service) Vote(id uint, up bool) (*models.Question, error) {
	return s.repo.Vote(id, up)
}

// Reply posts a threaded reply. A non-nil parentID must reference a reply
// on the same question.
func (s *Service) Reply(authorID, questionID uint, parentID *uint, text string) (*models.Reply, error) {
	if text == "" {
		return nil, ErrEmptyText
	}
	if err := s.filter.Check(text); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetByID(questionID); err != nil {
		return nil, err
	}
	if parentID != nil {
		parent, err := s.repo.GetReply(*parentID)
		if err != nil {
			return nil, err
		}
		if parent.QuestionID != questionID {
			return nil, ErrBadParent
		}
	}

	reply := &models.Reply{
		QuestionID: questionID,
		ParentID:   parentID,
		AuthorID:   authorID,
		Text:       text,
	}
	if err := s.repo.AddReply(reply); err != nil {
		return nil, err
	}
	return reply, nil
}

func (s *Service) DeleteReply(userID, replyID uint) error {
	reply, err := s.repo.GetReply(replyID)
	if err != nil {
		return err
	}
	if reply.AuthorID != userID {
		return ErrNotAuthor
	}
	return s.repo.DeleteReply(replyID)
}

// React bumps an emoji counter on a question or one of its replies.
func (s *Service) React(questionID uint, replyID uint, emoji string) (*models.Question, error) {
	if emoji == "" {
		return nil, ErrBadEmoji
	}
	if _, err := s.repo.GetByID(questionID); err != nil {
		return nil, err
	}
	if replyID != 0 {
		reply, err := s.repo.GetReply(replyID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrBadReaction
			}
			return nil, err
		}
		if reply.QuestionID != questionID {
			return nil, ErrBadReaction
		}
	}

	if err := s.repo.React(questionID, replyID, emoji); err != nil {
		return nil, err
	}
	return s.repo.GetByID(questionID)
}
