package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/fiapx/fiapx-keyframe-extractor/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sinkLog struct {
	calls []string
}

type fakeArchiver struct {
	log   *sinkLog
	paths []string
	out   string
	err   error
}

func (a *fakeArchiver) CreateZip(_ context.Context, filePaths []string, outputPath string) error {
	a.log.calls = append(a.log.calls, "archive")
	a.paths = filePaths
	a.out = outputPath
	return a.err
}

type fakeStorage struct {
	log  *sinkLog
	keys map[string]string
	err  error
}

func (s *fakeStorage) UploadKeyframe(_ context.Context, objectKey, filePath string) error {
	s.log.calls = append(s.log.calls, "upload")
	if s.err != nil {
		return s.err
	}
	s.keys[objectKey] = filePath
	return nil
}

type fakeRepo struct {
	log   *sinkLog
	saved *entity.Run
	err   error
}

func (r *fakeRepo) Save(_ context.Context, run *entity.Run) error {
	r.log.calls = append(r.log.calls, "ledger")
	r.saved = run
	return r.err
}

type fakePublisher struct {
	log  *sinkLog
	body []byte
}

func (p *fakePublisher) PublishRun(_ context.Context, msg []byte) error {
	p.log.calls = append(p.log.calls, "event")
	p.body = msg
	return nil
}

func finishedRun() *entity.Run {
	run := entity.NewRun("talk.mp4", 1, 0.3)
	run.FrameCount = 90
	run.FPS = 30
	run.Record(entity.Comparison{FrameIndex: 30, MatchRatio: 0.1, Written: true, Path: "frames/30.jpg"})
	run.Record(entity.Comparison{FrameIndex: 60, MatchRatio: 0.9})
	run.MarkCompleted()
	return run
}

func TestPublishRunAllSinks(t *testing.T) {
	log := &sinkLog{}
	archiver := &fakeArchiver{log: log}
	storage := &fakeStorage{log: log, keys: map[string]string{}}
	repo := &fakeRepo{log: log}
	pub := &fakePublisher{log: log}

	uc := NewPublishRunUseCase(archiver, storage, repo, pub, zap.NewNop(), PublishRunConfig{ArchivePath: "out.zip"})
	run := finishedRun()

	require.NoError(t, uc.Execute(context.Background(), run))

	assert.Equal(t, []string{"archive", "upload", "ledger", "event"}, log.calls)
	assert.Equal(t, []string{"frames/30.jpg"}, archiver.paths)
	assert.Equal(t, "out.zip", run.ArchivePath)

	key := run.ID.String() + "/30.jpg"
	assert.Equal(t, "frames/30.jpg", storage.keys[key])
	assert.Equal(t, key, run.Keyframes[0].ObjectKey)
	assert.Same(t, run, repo.saved)

	var msg entity.KeyframesExtractedMessage
	require.NoError(t, json.Unmarshal(pub.body, &msg))
	assert.Equal(t, run.ID, msg.RunID)
	assert.Equal(t, []int{30}, msg.Keyframes)
	assert.Equal(t, []string{key}, msg.ObjectKeys)
	assert.Equal(t, "out.zip", msg.ArchivePath)
}

func TestPublishRunWithoutSinks(t *testing.T) {
	uc := NewPublishRunUseCase(nil, nil, nil, nil, zap.NewNop(), PublishRunConfig{})
	assert.NoError(t, uc.Execute(context.Background(), finishedRun()))
}

func TestPublishRunSkipsArchiveWithoutKeyframes(t *testing.T) {
	log := &sinkLog{}
	uc := NewPublishRunUseCase(&fakeArchiver{log: log}, nil, nil, nil, zap.NewNop(), PublishRunConfig{ArchivePath: "out.zip"})

	run := entity.NewRun("still.mp4", 1, 0.3)
	run.MarkCompleted()

	require.NoError(t, uc.Execute(context.Background(), run))
	assert.Empty(t, log.calls)
	assert.Empty(t, run.ArchivePath)
}

func TestPublishRunContinuesAfterFailure(t *testing.T) {
	log := &sinkLog{}
	uploadErr := errors.New("bucket gone")
	repoErr := errors.New("db down")
	storage := &fakeStorage{log: log, keys: map[string]string{}, err: uploadErr}
	repo := &fakeRepo{log: log, err: repoErr}
	pub := &fakePublisher{log: log}

	uc := NewPublishRunUseCase(nil, storage, repo, pub, zap.NewNop(), PublishRunConfig{})
	err := uc.Execute(context.Background(), finishedRun())

	assert.ErrorIs(t, err, uploadErr)
	assert.ErrorIs(t, err, repoErr)
	assert.Equal(t, []string{"upload", "ledger", "event"}, log.calls)
}
