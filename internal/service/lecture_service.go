package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tachyon_backend/internal/model"
	"tachyon_backend/internal/repository"
	"tachyon_backend/internal/util"
	"tachyon_backend/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type LectureRequest struct {
	Title        string `json:"title" binding:"required"`
	Date         string `json:"date" binding:"required"`
	Subject      string `json:"subject" binding:"required"`
	ResourceType string `json:"resource_type" binding:"required"`
	ResourceURL  string `json:"resource_url"`
	Notes        string `json:"notes"`
}

type LectureView struct {
	model.Lecture
	EmbedURL string `json:"embedUrl"`
}

type LectureService struct {
	lectureRepo *repository.LectureRepository
	storage     *StorageService
}

func NewLectureService(lectureRepo *repository.LectureRepository, storage *StorageService) *LectureService {
	return &LectureService{lectureRepo: lectureRepo, storage: storage}
}

// Create registers a youtube lecture. Uploaded recordings go through Upload
// instead, which stores the file and probes it.
func (s *LectureService) Create(creatorID uint, req LectureRequest) (*model.Lecture, error) {
	lecture, err := s.buildLecture(creatorID, req)
	if err != nil {
		return nil, err
	}
	if lecture.ResourceType != model.LectureYoutube {
		return nil, util.NewInvalidInput("resource type %s requires a file upload", lecture.ResourceType)
	}
	if lecture.ResourceURL == "" {
		return nil, util.NewInvalidInput("resource_url is required for youtube lectures")
	}

	if err := s.lectureRepo.Create(lecture); err != nil {
		return nil, util.NewInternal("creating lecture", err)
	}
	return lecture, nil
}

// Upload stores a lecture recording, probes its duration and generates a
// thumbnail. Probe failures are logged but do not fail the upload, since the
// recording itself is already safe in storage.
func (s *LectureService) Upload(ctx context.Context, creatorID uint, req LectureRequest, file *multipart.FileHeader) (*model.Lecture, error) {
	lecture, err := s.buildLecture(creatorID, req)
	if err != nil {
		return nil, err
	}
	if lecture.ResourceType != model.LectureVideo {
		return nil, util.NewInvalidInput("file uploads are only supported for video lectures")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".mp4", ".mkv", ".webm", ".mov":
	default:
		return nil, util.NewInvalidInput("unsupported video format: %s", ext)
	}

	src, err := file.Open()
	if err != nil {
		return nil, util.NewInvalidInput("opening upload: %v", err)
	}
	defer src.Close()

	objectName := fmt.Sprintf("lectures/%s%s", uuid.NewString(), ext)
	url, err := s.storage.Upload(ctx, objectName, src, file.Size, file.Header.Get("Content-Type"))
	if err != nil {
		return nil, util.NewUnavailable("storing recording: %v", err)
	}
	lecture.ResourceURL = url

	s.probeRecording(ctx, lecture, file, objectName, ext)

	if err := s.lectureRepo.Create(lecture); err != nil {
		return nil, util.NewInternal("creating lecture", err)
	}
	return lecture, nil
}

// probeRecording extracts duration and a thumbnail from the uploaded file via
// a temp copy on local disk.
func (s *LectureService) probeRecording(ctx context.Context, lecture *model.Lecture, file *multipart.FileHeader, objectName, ext string) {
	src, err := file.Open()
	if err != nil {
		return
	}
	defer src.Close()

	tmp, err := os.CreateTemp("", "lecture-*"+ext)
	if err != nil {
		return
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := tmp.ReadFrom(src); err != nil {
		return
	}

	info, err := util.GetVideoInfo(tmp.Name())
	if err != nil {
		logger.Log.Warn("probing lecture recording failed", zap.Error(err))
		return
	}
	lecture.DurationMinutes = int(info.Duration / 60)

	thumbPath := tmp.Name() + ".jpg"
	if err := util.GenerateThumbnail(tmp.Name(), thumbPath, "00:00:01"); err != nil {
		logger.Log.Warn("generating lecture thumbnail failed", zap.Error(err))
		return
	}
	defer os.Remove(thumbPath)

	thumbObject := strings.TrimSuffix(objectName, ext) + ".jpg"
	url, err := s.storage.UploadFile(ctx, thumbObject, thumbPath, "image/jpeg")
	if err != nil {
		logger.Log.Warn("storing lecture thumbnail failed", zap.Error(err))
		return
	}
	lecture.ThumbnailURL = url
}

func (s *LectureService) Update(id uint, req LectureRequest) (*model.Lecture, error) {
	lecture, err := s.lectureRepo.FindByID(id)
	if err != nil {
		return nil, util.WrapDB(err, "lecture %d not found", id)
	}

	updated, err := s.buildLecture(lecture.CreatedBy, req)
	if err != nil {
		return nil, err
	}
	lecture.Title = updated.Title
	lecture.Date = updated.Date
	lecture.Subject = updated.Subject
	lecture.Notes = updated.Notes
	if updated.ResourceURL != "" && lecture.ResourceType == model.LectureYoutube {
		lecture.ResourceURL = updated.ResourceURL
	}

	if err := s.lectureRepo.Update(lecture); err != nil {
		return nil, util.NewInternal("updating lecture", err)
	}
	return lecture, nil
}

func (s *LectureService) Deactivate(id uint) error {
	if _, err := s.lectureRepo.FindByID(id); err != nil {
		return util.WrapDB(err, "lecture %d not found", id)
	}
	if err := s.lectureRepo.Deactivate(id); err != nil {
		return util.NewInternal("deactivating lecture", err)
	}
	return nil
}

func (s *LectureService) List(subject string, page, limit int) ([]LectureView, int64, error) {
	if subject != "" && !model.ValidSubject(subject) {
		return nil, 0, util.NewInvalidInput("unknown subject: %s", subject)
	}
	lectures, total, err := s.lectureRepo.List(subject, page, limit)
	if err != nil {
		return nil, 0, util.NewInternal("listing lectures", err)
	}

	views := make([]LectureView, 0, len(lectures))
	for _, l := range lectures {
		views = append(views, LectureView{Lecture: l, EmbedURL: l.EmbedURL()})
	}
	return views, total, nil
}

func (s *LectureService) buildLecture(creatorID uint, req LectureRequest) (*model.Lecture, error) {
	if !model.ValidSubject(req.Subject) {
		return nil, util.NewInvalidInput("unknown subject: %s", req.Subject)
	}
	resourceType := model.LectureResourceType(req.ResourceType)
	if resourceType != model.LectureYoutube && resourceType != model.LectureVideo {
		return nil, util.NewInvalidInput("unknown resource type: %s", req.ResourceType)
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, util.NewInvalidInput("date must be YYYY-MM-DD")
	}

	return &model.Lecture{
		Title:        strings.TrimSpace(req.Title),
		Date:         date,
		Subject:      model.Subject(req.Subject),
		ResourceType: resourceType,
		ResourceURL:  strings.TrimSpace(req.ResourceURL),
		Notes:        req.Notes,
		CreatedBy:    creatorID,
		IsActive:     true,
	}, nil
}
