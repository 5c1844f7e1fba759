package renamer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"go_renamer/caption"
	"go_renamer/core"
	"go_renamer/history"
	"go_renamer/logging"
	"go_renamer/pdftext"
	"go_renamer/slugify"
	"go_renamer/vision"
)

// Captioner is the remote model surface the orchestrator needs.
type Captioner interface {
	CaptionImage(ctx context.Context, jpeg []byte, s core.Settings) (core.CaptionResult, error)
	NameFromText(ctx context.Context, prompt string, s core.Settings) (core.CaptionResult, error)
}

// PreviewExtractor produces a title/excerpt preview from PDF bytes.
type PreviewExtractor interface {
	ExtractPreview(data []byte, cfg pdftext.Config) pdftext.Preview
}

// Limiter gates remote model calls.
type Limiter interface {
	CheckAndConsume() error
}

// Recorder persists rename outcomes.
type Recorder interface {
	Record(e history.Entry)
}

// BytesFetcher retrieves download bytes.
type BytesFetcher interface {
	Fetch(ctx context.Context, url string, maxSize int64) ([]byte, error)
}

// Orchestrator runs the full rename pipeline for one download event.
type Orchestrator struct {
	captioner Captioner
	extractor PreviewExtractor
	limiter   Limiter
	recorder  Recorder
	fetcher   BytesFetcher
	notifier  Notifier
	logger    *logging.Logger
}

// NewOrchestrator wires the pipeline stages together. A nil notifier or
// logger is replaced with a harmless default.
func NewOrchestrator(
	captioner Captioner,
	extractor PreviewExtractor,
	limiter Limiter,
	recorder Recorder,
	fetcher BytesFetcher,
	notifier Notifier,
	logger *logging.Logger,
) *Orchestrator {
	if logger == nil {
		logger = logging.NewNop()
	}
	if notifier == nil {
		notifier = NewLogNotifier(logger)
	}
	return &Orchestrator{
		captioner: captioner,
		extractor: extractor,
		limiter:   limiter,
		recorder:  recorder,
		fetcher:   fetcher,
		notifier:  notifier,
		logger:    logger.Named("renamer"),
	}
}

// Result is the outcome of handling one download event.
type Result struct {
	// Suggested is the new filename, empty unless Outcome is success
	Suggested string

	// Outcome mirrors what was recorded in history
	Outcome history.Outcome

	// Caption is the raw model text behind the suggestion
	Caption string

	// Err is the tagged failure when Outcome is failure
	Err error
}

// Handle runs the pipeline for one download. Settings are snapshotted by the
// caller, so a concurrent settings change cannot affect an in-flight rename.
//
// Unprocessable classes return a zero Result and record nothing; every
// image or PDF event records exactly one history entry whatever happens.
func (o *Orchestrator) Handle(ctx context.Context, req core.DownloadRequest, s core.Settings) Result {
	class := Classify(req)
	if class == core.ClassOther {
		o.logger.Debug("ignoring unprocessable download",
			zap.String("filename", req.Filename),
			zap.String("mime", req.MimeHint))
		return Result{}
	}

	if class == core.ClassPdf && !s.PDFEnabled {
		return o.finish(req, class, s, Result{Outcome: history.OutcomeSkipped}, "pdf handling disabled")
	}

	if s.Token == "" {
		return o.fail(req, class, s, core.ErrMissingToken())
	}

	fetchCtx, cancel := context.WithTimeout(ctx, o.timeout(s))
	defer cancel()

	data, err := o.fetcher.Fetch(fetchCtx, req.URL, s.MaxFileSize)
	if err != nil {
		return o.fail(req, class, s, err)
	}

	if class == core.ClassImage && s.SkipSmallImages && int64(len(data)) < s.MinFileSize {
		return o.finish(req, class, s, Result{Outcome: history.OutcomeSkipped}, "below minimum image size")
	}

	switch class {
	case core.ClassImage:
		return o.handleImage(ctx, req, data, s)
	default:
		return o.handlePdf(ctx, req, data, s)
	}
}

func (o *Orchestrator) handleImage(ctx context.Context, req core.DownloadRequest, data []byte, s core.Settings) Result {
	jpeg, err := vision.PrepareForCaption(data)
	if err != nil {
		return o.fail(req, core.ClassImage, s, core.ErrTransport(err.Error()))
	}

	if err := o.limiter.CheckAndConsume(); err != nil {
		return o.fail(req, core.ClassImage, s, err)
	}

	callCtx, cancel := context.WithTimeout(ctx, o.timeout(s))
	defer cancel()

	described, err := o.captioner.CaptionImage(callCtx, jpeg, s)
	if err != nil {
		return o.fail(req, core.ClassImage, s, err)
	}

	slug := slugify.ToSlug(described.Text, slugify.Options{
		CleanCaptions: s.CleanCaptions,
		MaxWords:      s.MaxWords,
		AddDateSuffix: s.AddDateSuffix,
		Fallback:      slugify.FallbackImage,
	})

	res := Result{
		Suggested: slug + ExtensionFor(core.ClassImage, req),
		Outcome:   history.OutcomeSuccess,
		Caption:   described.Text,
	}
	return o.finish(req, core.ClassImage, s, res, "")
}

func (o *Orchestrator) handlePdf(ctx context.Context, req core.DownloadRequest, data []byte, s core.Settings) Result {
	preview := o.extractor.ExtractPreview(data, pdftext.Config{
		MaxChars:   s.PDFMaxChars,
		MaxStreams: s.PDFMaxStreams,
	})

	prompt := BuildNamePrompt(BaseName(req.Filename), preview.Title, preview.Excerpt, s.MaxWords)

	if err := o.limiter.CheckAndConsume(); err != nil {
		return o.fail(req, core.ClassPdf, s, err)
	}

	callCtx, cancel := context.WithTimeout(ctx, o.timeout(s))
	defer cancel()

	suggestion, err := o.captioner.NameFromText(callCtx, prompt, s)
	if err != nil {
		return o.fail(req, core.ClassPdf, s, err)
	}

	slug := slugify.ToSlug(suggestion.Text, slugify.Options{
		CleanCaptions: s.CleanCaptions,
		MaxWords:      s.MaxWords,
		AddDateSuffix: s.AddDateSuffix,
		Fallback:      slugify.FallbackDownload,
	})

	res := Result{
		Suggested: slug + ".pdf",
		Outcome:   history.OutcomeSuccess,
		Caption:   suggestion.Text,
	}
	return o.finish(req, core.ClassPdf, s, res, "")
}

func (o *Orchestrator) timeout(s core.Settings) time.Duration {
	if s.RequestTimeout > 0 {
		return s.RequestTimeout
	}
	return core.DefaultRequestTimeoutSec * time.Second
}

// fail records a failure entry and returns the matching Result.
func (o *Orchestrator) fail(req core.DownloadRequest, class core.FileClass, s core.Settings, err error) Result {
	o.logger.Warn("rename failed",
		zap.String("filename", req.Filename),
		zap.String("class", class.String()),
		zap.String("kind", core.KindOf(err).String()),
		zap.Error(err))
	return o.finish(req, class, s, Result{Outcome: history.OutcomeFailure, Err: err}, "")
}

// finish is the single funnel through which every processed download is
// recorded and notified, whatever its outcome.
func (o *Orchestrator) finish(req core.DownloadRequest, class core.FileClass, s core.Settings, res Result, reason string) Result {
	entry := history.Entry{
		Outcome:  res.Outcome,
		Original: req.Filename,
		Renamed:  res.Suggested,
		Caption:  res.Caption,
		FileType: class.String(),
		Source:   SourceHost(req.URL),
	}
	if res.Err != nil {
		entry.Error = res.Err.Error()
	} else if reason != "" {
		entry.Error = reason
	}

	o.recorder.Record(entry)
	if s.NotificationsEnabled {
		o.notifier.Notify(req, entry)
	}
	return res
}

var _ Captioner = (*caption.Client)(nil)
var _ PreviewExtractor = (*pdftext.Extractor)(nil)
var _ BytesFetcher = (*Fetcher)(nil)
