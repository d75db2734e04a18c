package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/lysyi3m/telelinker/app/link"
)

const (
	DefaultYouTubeAPIBase = "https://www.googleapis.com/youtube/v3"
	DefaultYtDlpPath      = "yt-dlp"
)

var errNoVideoID = errors.New("no video id in URL")

// YouTube reads video statistics from the Data API when an API key is
// configured and from yt-dlp otherwise.
type YouTube struct {
	fetcher   *Fetcher
	apiKey    string
	apiBase   string
	ytdlpPath string
	timeout   time.Duration
}

func NewYouTube(fetcher *Fetcher, opts Options) *YouTube {
	y := &YouTube{
		fetcher:   fetcher,
		apiKey:    opts.YouTubeAPIKey,
		apiBase:   strings.TrimRight(opts.YouTubeAPIBase, "/"),
		ytdlpPath: opts.YtDlpPath,
		timeout:   opts.Timeout,
	}
	if y.apiBase == "" {
		y.apiBase = DefaultYouTubeAPIBase
	}
	if y.ytdlpPath == "" {
		y.ytdlpPath = DefaultYtDlpPath
	}
	if y.timeout <= 0 {
		y.timeout = DefaultTimeout
	}
	return y
}

func (y *YouTube) Extract(ctx context.Context, rawURL string) Record {
	return extractOrFallback(ctx, link.PlatformYouTube, rawURL, ContentTypeVideo, y.extract)
}

func (y *YouTube) extract(ctx context.Context, rawURL string) (Record, error) {
	if y.apiKey != "" {
		return y.fromDataAPI(ctx, rawURL)
	}
	return y.fromYtDlp(ctx, rawURL)
}

type youtubeVideosResponse struct {
	Items []struct {
		Snippet struct {
			ChannelTitle string `json:"channelTitle"`
			PublishedAt  string `json:"publishedAt"`
		} `json:"snippet"`
		Statistics struct {
			ViewCount    string `json:"viewCount"`
			LikeCount    string `json:"likeCount"`
			CommentCount string `json:"commentCount"`
		} `json:"statistics"`
	} `json:"items"`
}

func (y *YouTube) fromDataAPI(ctx context.Context, rawURL string) (Record, error) {
	videoID, err := youtubeVideoID(rawURL)
	if err != nil {
		return Record{}, err
	}

	endpoint := fmt.Sprintf("%s/videos?part=snippet,statistics&id=%s", y.apiBase, url.QueryEscape(videoID))

	data, err := y.fetcher.Get(ctx, endpoint, map[string]string{
		"Accept":         "application/json",
		"X-Goog-Api-Key": y.apiKey,
	})
	if err != nil {
		return Record{}, fmt.Errorf("failed to query YouTube Data API: %w", err)
	}

	var resp youtubeVideosResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return Record{}, fmt.Errorf("failed to decode YouTube Data API response: %w", err)
	}
	if len(resp.Items) == 0 {
		return Record{}, fmt.Errorf("video %s not found", videoID)
	}

	item := resp.Items[0]
	return Record{
		Author:      normalizeAuthor(item.Snippet.ChannelTitle),
		Likes:       parseStatistic(item.Statistics.LikeCount),
		Comments:    parseStatistic(item.Statistics.CommentCount),
		Views:       parseStatistic(item.Statistics.ViewCount),
		PublishedAt: nonEmpty(item.Snippet.PublishedAt),
		ContentType: ptr(ContentTypeVideo),
	}, nil
}

type ytdlpInfo struct {
	Uploader     *string `json:"uploader"`
	LikeCount    *int64  `json:"like_count"`
	CommentCount *int64  `json:"comment_count"`
	ViewCount    *int64  `json:"view_count"`
	UploadDate   *string `json:"upload_date"`
}

func (y *YouTube) fromYtDlp(ctx context.Context, rawURL string) (Record, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, y.timeout)
	defer cancel()

	cmd := exec.CommandContext(timeoutCtx, y.ytdlpPath,
		"--dump-single-json", "--skip-download", "--no-warnings", "--quiet", rawURL)
	out, err := cmd.Output()
	if err != nil {
		return Record{}, fmt.Errorf("yt-dlp failed: %w", err)
	}

	var info ytdlpInfo
	if err := json.Unmarshal(out, &info); err != nil {
		return Record{}, fmt.Errorf("failed to decode yt-dlp output: %w", err)
	}

	rec := Record{
		Likes:       info.LikeCount,
		Comments:    info.CommentCount,
		Views:       info.ViewCount,
		ContentType: ptr(ContentTypeVideo),
	}
	if info.Uploader != nil {
		rec.Author = normalizeAuthor(*info.Uploader)
	}
	if info.UploadDate != nil {
		rec.PublishedAt = nonEmpty(*info.UploadDate)
	}
	return rec, nil
}

// youtubeVideoID understands watch, youtu.be, shorts, embed and live URLs.
func youtubeVideoID(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse URL: %w", err)
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")

	if strings.Contains(u.Host, "youtu.be") {
		if segments[0] != "" {
			return segments[0], nil
		}
		return "", errNoVideoID
	}

	if v := u.Query().Get("v"); v != "" {
		return v, nil
	}

	for i, segment := range segments[:len(segments)-1] {
		switch segment {
		case "shorts", "embed", "live", "v":
			if id := segments[i+1]; id != "" {
				return id, nil
			}
		}
	}

	return "", errNoVideoID
}

func parseStatistic(s string) *int64 {
	if s == "" {
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}
