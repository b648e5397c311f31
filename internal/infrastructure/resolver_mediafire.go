package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/yourusername/mediafire-dl-go/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// MediaFireResolver implements domain.Resolver against the MediaFire v1.5 JSON API
type MediaFireResolver struct {
	client    *http.Client
	config    *domain.MediaFireConfig
	userAgent string
	logger    *zap.Logger
}

// NewMediaFireResolver creates a new resolver
func NewMediaFireResolver(client *http.Client, config *domain.MediaFireConfig, userAgent string, logger *zap.Logger) *MediaFireResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MediaFireResolver{
		client:    client,
		config:    config,
		userAgent: userAgent,
		logger:    logger,
	}
}

// apiInt accepts both JSON numbers and numeric strings; MediaFire sends sizes as strings
type apiInt int64

func (n *apiInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	*n = apiInt(v)
	return nil
}

type apiStatus struct {
	Result  string `json:"result"`
	Message string `json:"message"`
}

type apiFile struct {
	QuickKey string `json:"quickkey"`
	Filename string `json:"filename"`
	Size     apiInt `json:"size"`
	Links    struct {
		NormalDownload string `json:"normal_download"`
	} `json:"links"`
}

type apiFolder struct {
	FolderKey string `json:"folderkey"`
	Name      string `json:"name"`
}

type fileInfoResponse struct {
	apiStatus
	FileInfo *apiFile `json:"file_info"`
}

type folderInfoResponse struct {
	apiStatus
	FolderInfo *apiFolder `json:"folder_info"`
}

type folderContentResponse struct {
	apiStatus
	FolderContent struct {
		Files      []apiFile   `json:"files"`
		Folders    []apiFolder `json:"folders"`
		MoreChunks string      `json:"more_chunks"`
	} `json:"folder_content"`
}

// Resolve implements domain.Resolver. A file link yields one job at
// <outputDir>/<filename>; a folder link yields every file below
// <outputDir>/<folder name>, subfolders included.
func (r *MediaFireResolver) Resolve(ctx context.Context, link domain.ShareLink, outputDir string) ([]*domain.Job, error) {
	switch link.Kind {
	case domain.LinkFile:
		file, err := r.fileInfo(ctx, link.Key)
		if err != nil {
			return nil, &domain.ResolutionError{Key: link.Key, Err: err}
		}
		return []*domain.Job{newJob(*file, outputDir)}, nil

	case domain.LinkFolder:
		folder, err := r.folderInfo(ctx, link.Key)
		if err != nil {
			return nil, &domain.ResolutionError{Key: link.Key, Err: err}
		}
		root := filepath.Join(outputDir, sanitizeName(folder.Name))
		jobs, err := r.walkFolder(ctx, link.Key, root)
		if err != nil {
			return nil, &domain.ResolutionError{Key: link.Key, Err: err}
		}
		return jobs, nil
	}
	return nil, &domain.ResolutionError{Key: link.Key, Err: fmt.Errorf("unknown link kind %q", link.Kind)}
}

// walkFolder lists the files of one folder and recurses into its subfolders.
// A subfolder that fails to list is skipped with a warning; only the folder
// passed in can fail the walk.
func (r *MediaFireResolver) walkFolder(ctx context.Context, key, dir string) ([]*domain.Job, error) {
	files, _, err := r.folderContent(ctx, key, "files")
	if err != nil {
		return nil, err
	}
	_, folders, err := r.folderContent(ctx, key, "folders")
	if err != nil {
		return nil, err
	}

	jobs := make([]*domain.Job, 0, len(files))
	for _, f := range files {
		jobs = append(jobs, newJob(f, dir))
	}

	limit := r.config.FolderConcurrency
	if limit < 1 {
		limit = 1
	}
	sub := make([][]*domain.Job, len(folders))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, folder := range folders {
		i, folder := i, folder
		g.Go(func() error {
			childJobs, err := r.walkFolder(gctx, folder.FolderKey, filepath.Join(dir, sanitizeName(folder.Name)))
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				r.logger.Warn("Skipping folder",
					zap.String("key", folder.FolderKey),
					zap.String("name", folder.Name),
					zap.Error(err))
				return nil
			}
			sub[i] = childJobs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, childJobs := range sub {
		jobs = append(jobs, childJobs...)
	}
	return jobs, nil
}

func (r *MediaFireResolver) fileInfo(ctx context.Context, key string) (*apiFile, error) {
	var resp fileInfoResponse
	if err := r.call(ctx, "file/get_info.php", url.Values{"quick_key": {key}}, &resp); err != nil {
		return nil, err
	}
	if resp.FileInfo == nil {
		return nil, fmt.Errorf("file_info missing from response")
	}
	return resp.FileInfo, nil
}

func (r *MediaFireResolver) folderInfo(ctx context.Context, key string) (*apiFolder, error) {
	var resp folderInfoResponse
	if err := r.call(ctx, "folder/get_info.php", url.Values{"folder_key": {key}}, &resp); err != nil {
		return nil, err
	}
	if resp.FolderInfo == nil {
		return nil, fmt.Errorf("folder_info missing from response")
	}
	return resp.FolderInfo, nil
}

// folderContent pages through every chunk of one content type
func (r *MediaFireResolver) folderContent(ctx context.Context, key, contentType string) ([]apiFile, []apiFolder, error) {
	var (
		files   []apiFile
		folders []apiFolder
	)
	for chunk := 1; ; chunk++ {
		params := url.Values{
			"folder_key":   {key},
			"content_type": {contentType},
			"chunk":        {strconv.Itoa(chunk)},
		}
		var resp folderContentResponse
		if err := r.call(ctx, "folder/get_content.php", params, &resp); err != nil {
			return nil, nil, err
		}
		files = append(files, resp.FolderContent.Files...)
		folders = append(folders, resp.FolderContent.Folders...)

		if resp.FolderContent.MoreChunks != "yes" {
			return files, folders, nil
		}
	}
}

// call performs one API request and decodes the "response" envelope into out
func (r *MediaFireResolver) call(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	if r.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.RequestTimeout)
		defer cancel()
	}

	params.Set("response_format", "json")
	endpointURL := strings.TrimRight(r.config.APIBaseURL, "/") + "/" + endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpointURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", r.userAgent)

	r.logger.Debug("MediaFire API request", zap.String("url", endpointURL))

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("api request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read api response: %w", err)
	}

	var envelope struct {
		Response json.RawMessage `json:"response"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Response) == 0 {
		return fmt.Errorf("unexpected api response (status %d)", resp.StatusCode)
	}

	var status apiStatus
	if err := json.Unmarshal(envelope.Response, &status); err != nil {
		return fmt.Errorf("failed to decode api status: %w", err)
	}
	if status.Result != "Success" {
		msg := status.Message
		if msg == "" {
			msg = "request failed"
		}
		return fmt.Errorf("mediafire api: %s", msg)
	}

	decoder := json.NewDecoder(bytes.NewReader(envelope.Response))
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("failed to decode api response: %w", err)
	}
	return nil
}

func newJob(f apiFile, dir string) *domain.Job {
	downloadURL := f.Links.NormalDownload
	if downloadURL == "" {
		downloadURL = fmt.Sprintf("https://www.mediafire.com/file/%s/%s/file", f.QuickKey, url.PathEscape(f.Filename))
	}
	name := sanitizeName(f.Filename)
	return domain.NewJob(f.QuickKey, name, filepath.Join(dir, name), downloadURL, int64(f.Size))
}

// sanitizeName turns a remote name into a single safe path element
func sanitizeName(name string) string {
	name = strings.TrimSpace(strings.NewReplacer("/", "_", "\\", "_", "\x00", "").Replace(name))
	if name == "" || name == "." || name == ".." {
		return "_"
	}
	return name
}
