package service

import (
	"context"
	"strings"
	"time"

	activitydomain "github.com/apiwikihq/apiwiki/internal/activity/domain"
	"github.com/apiwikihq/apiwiki/internal/board/domain"
	"github.com/apiwikihq/apiwiki/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Repo     domain.Repository
	Activity activitydomain.Service
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     domain.Repository
	activity activitydomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("board.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		activity: p.Activity,
	}
}

func (s *Service) CreatePost(ctx context.Context, req domain.CreatePostRequest) (*domain.PostResponse, error) {
	board := req.Board
	if board == "" {
		board = domain.BoardGeneral
	}
	if !board.Valid() {
		return nil, domain.ErrInvalidBoard
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, domain.ErrInvalidTitle
	}

	authorID, err := snowflake.ParseString(strings.TrimSpace(req.AuthorID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	now := time.Now().UTC()
	post := &domain.Post{
		ID:        s.genID.Generate(),
		Board:     board,
		AuthorID:  authorID,
		Title:     title,
		Body:      strings.TrimSpace(req.Body),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreatePost(ctx, s.db, post); err != nil {
		return nil, err
	}

	// Feedback posts earn the feedback action, everything else a
	// plain post.
	action := activitydomain.ActionPost
	if board == domain.BoardFeedback {
		action = activitydomain.ActionFeedback
	}
	s.activity.Record(ctx, authorID.String(), action, nil)

	resp := toPostResponse(post)
	return &resp, nil
}

func (s *Service) ListPosts(ctx context.Context, req domain.ListPostsRequest) (*domain.ListPostsResponse, error) {
	if req.Board != "" && !req.Board.Valid() {
		return nil, domain.ErrInvalidBoard
	}

	pageSize := req.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	beforeID := int64(0)
	if req.PageToken != "" {
		cursor, err := pagination.DecodeCursor(req.PageToken)
		if err != nil {
			return nil, domain.ErrInvalidCursor
		}
		parsed, err := snowflake.ParseString(cursor.ID)
		if err != nil {
			return nil, domain.ErrInvalidCursor
		}
		beforeID = parsed.Int64()
	}

	posts, err := s.repo.ListPosts(ctx, s.db, req.Board, beforeID, pageSize+1)
	if err != nil {
		return nil, err
	}

	posts, pageInfo := pagination.BuildCursorPageInfo(posts, pageSize, func(p *domain.Post) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{ID: p.ID.String()})
		if err != nil {
			return ""
		}
		return token
	})

	out := make([]*domain.PostResponse, 0, len(posts))
	for _, post := range posts {
		resp := toPostResponse(post)
		out = append(out, &resp)
	}
	return &domain.ListPostsResponse{Posts: out, PageInfo: pageInfo}, nil
}

func (s *Service) GetPost(ctx context.Context, id string) (*domain.PostDetail, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	post, err := s.repo.FindPost(ctx, s.db, parsed.Int64())
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, domain.ErrPostNotFound
	}

	comments, err := s.repo.ListComments(ctx, s.db, parsed.Int64())
	if err != nil {
		return nil, err
	}

	detail := &domain.PostDetail{
		PostResponse: toPostResponse(post),
		Comments:     make([]domain.CommentResponse, 0, len(comments)),
	}
	for _, comment := range comments {
		detail.Comments = append(detail.Comments, toCommentResponse(&comment))
	}
	return detail, nil
}

func (s *Service) DeletePost(ctx context.Context, req domain.DeleteRequest) error {
	parsed, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil {
		return domain.ErrInvalidID
	}

	post, err := s.repo.FindPost(ctx, s.db, parsed.Int64())
	if err != nil {
		return err
	}
	if post == nil {
		return domain.ErrPostNotFound
	}
	if !req.ActorIsAdmin && post.AuthorID.String() != strings.TrimSpace(req.ActorID) {
		return domain.ErrNotAuthor
	}

	return s.repo.DeletePost(ctx, s.db, parsed.Int64())
}

func (s *Service) CreateComment(ctx context.Context, req domain.CreateCommentRequest) (*domain.CommentResponse, error) {
	body := strings.TrimSpace(req.Body)
	if body == "" {
		return nil, domain.ErrInvalidBody
	}

	postID, err := snowflake.ParseString(strings.TrimSpace(req.PostID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	authorID, err := snowflake.ParseString(strings.TrimSpace(req.AuthorID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	post, err := s.repo.FindPost(ctx, s.db, postID.Int64())
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, domain.ErrPostNotFound
	}

	comment := &domain.Comment{
		ID:        s.genID.Generate(),
		PostID:    postID,
		AuthorID:  authorID,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateComment(ctx, s.db, comment); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, authorID.String(), activitydomain.ActionComment, nil)

	resp := toCommentResponse(comment)
	return &resp, nil
}

func (s *Service) DeleteComment(ctx context.Context, req domain.DeleteRequest) error {
	parsed, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil {
		return domain.ErrInvalidID
	}

	comment, err := s.repo.FindComment(ctx, s.db, parsed.Int64())
	if err != nil {
		return err
	}
	if comment == nil {
		return domain.ErrCommentNotFound
	}
	if !req.ActorIsAdmin && comment.AuthorID.String() != strings.TrimSpace(req.ActorID) {
		return domain.ErrNotAuthor
	}

	return s.repo.DeleteComment(ctx, s.db, parsed.Int64())
}

func toPostResponse(p *domain.Post) domain.PostResponse {
	return domain.PostResponse{
		ID:        p.ID.String(),
		Board:     p.Board,
		AuthorID:  p.AuthorID.String(),
		Title:     p.Title,
		Body:      p.Body,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toCommentResponse(c *domain.Comment) domain.CommentResponse {
	return domain.CommentResponse{
		ID:        c.ID.String(),
		PostID:    c.PostID.String(),
		AuthorID:  c.AuthorID.String(),
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
	}
}
