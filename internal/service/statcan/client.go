package statcan

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	xhttp "PriceTrack/pkg/http"
	applogger "PriceTrack/pkg/logger"
)

// Client talks to the StatCan Web Data Service to fetch full-table CSV
// archives.
type Client struct {
	baseURL string
	tableID string
	lang    string
	http    *xhttp.Client
	l       *applogger.Logger
}

// New creates a StatCan WDS client for one table.
func New(baseURL, tableID, lang string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tableID: tableID,
		lang:    lang,
		http:    xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

// SetLogger injects a structured logger.
func (c *Client) SetLogger(l *applogger.Logger) { c.l = l }

type downloadLinkResponse struct {
	Status string `json:"status"`
	Object string `json:"object"`
}

// DownloadURL asks the WDS REST API for the full-table CSV zip link.
func (c *Client) DownloadURL(ctx context.Context) (string, error) {
	url := fmt.Sprintf("%s/getFullTableDownloadCSV/%s/%s", c.baseURL, c.tableID, c.lang)

	var resp downloadLinkResponse
	if err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    url,
	}, &resp); err != nil {
		return "", fmt.Errorf("get download link: %w", err)
	}
	if resp.Object == "" {
		return "", fmt.Errorf("no download link in WDS response (status %q)", resp.Status)
	}
	return resp.Object, nil
}

// FetchTable downloads and extracts the table archive into dir and
// returns the path of the contained CSV. The caller removes dir when done.
func (c *Client) FetchTable(ctx context.Context, dir string) (string, error) {
	url, err := c.DownloadURL(ctx)
	if err != nil {
		return "", err
	}

	zipPath := filepath.Join(dir, fmt.Sprintf("statcan_%s.zip", c.tableID))
	if err := c.download(ctx, url, zipPath); err != nil {
		return "", err
	}

	extractDir := filepath.Join(dir, "extracted")
	if err := extractZip(zipPath, extractDir); err != nil {
		return "", err
	}

	csvPath, err := findCSV(extractDir)
	if err != nil {
		return "", err
	}

	if c.l != nil {
		c.l.Info("table archive fetched",
			applogger.String("table", c.tableID),
			applogger.String("csv", filepath.Base(csvPath)),
		)
	}
	return csvPath, nil
}

func (c *Client) download(ctx context.Context, url, dest string) error {
	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create download file: %w", err)
	}
	defer f.Close()

	start := time.Now()
	if err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    url,
	}, io.Writer(f)); err != nil {
		return fmt.Errorf("download archive: %w", err)
	}

	if c.l != nil {
		info, _ := f.Stat()
		var size int64
		if info != nil {
			size = info.Size()
		}
		c.l.Info("archive downloaded",
			applogger.String("table", c.tableID),
			applogger.Int("bytes", int(size)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return nil
}

func extractZip(zipPath, dest string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("create extract dir: %w", err)
	}

	for _, f := range r.File {
		// keep extraction inside dest
		name := filepath.Base(f.Name)
		if name == "" || f.FileInfo().IsDir() {
			continue
		}
		target := filepath.Join(dest, name)

		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("open zip entry %s: %w", f.Name, err)
		}
		out, err := os.Create(target)
		if err != nil {
			rc.Close()
			return fmt.Errorf("create %s: %w", target, err)
		}
		_, err = io.Copy(out, rc)
		rc.Close()
		out.Close()
		if err != nil {
			return fmt.Errorf("extract %s: %w", f.Name, err)
		}
	}
	return nil
}

func findCSV(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read extract dir: %w", err)
	}
	for _, e := range entries {
		name := e.Name()
		// the archive ships a _MetaData.csv alongside the table itself
		if strings.HasSuffix(name, ".csv") && !strings.Contains(name, "MetaData") {
			return filepath.Join(dir, name), nil
		}
	}
	return "", fmt.Errorf("no CSV file found in archive")
}
