package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/alvarorichard/goanitube/internal/util"
	tea "github.com/charmbracelet/bubbletea"
)

// downloadWithHTTP transfers a direct file over plain HTTP with range
// requests split across workers, rendering a progress bar. Used when
// aria2c is unavailable for direct files.
func (d *Downloader) downloadWithHTTP(ctx context.Context, url, destPath string) error {
	client := util.GetSharedClient()

	contentLength, err := probeContentLength(ctx, client, url)
	if err != nil {
		return err
	}

	m := newProgressModel(contentLength)
	program := tea.NewProgram(m)

	downloadErr := make(chan error, 1)
	go func() {
		defer program.Send(doneMsg{})
		if contentLength <= 0 {
			downloadErr <- downloadSingle(ctx, client, url, destPath, m)
			return
		}
		downloadErr <- d.downloadParts(ctx, client, url, destPath, contentLength, m)
	}()

	if _, err := program.Run(); err != nil {
		util.Debugf("progress UI failed: %v", err)
	}
	return <-downloadErr
}

func probeContentLength(ctx context.Context, client *http.Client, url string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", util.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to probe file size: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	size, err := strconv.ParseInt(resp.Header.Get("Content-Length"), 10, 64)
	if err != nil {
		return 0, nil // unknown size, fall back to a single stream
	}
	return size, nil
}

// downloadParts fetches byte ranges concurrently into part files, then
// combines them into destPath.
func (d *Downloader) downloadParts(ctx context.Context, client *http.Client, url, destPath string, contentLength int64, m *progressModel) error {
	numThreads := d.numThreads
	partSize := contentLength / int64(numThreads)

	var wg sync.WaitGroup
	errs := make(chan error, numThreads)
	for i := 0; i < numThreads; i++ {
		from := int64(i) * partSize
		to := from + partSize - 1
		if i == numThreads-1 {
			to = contentLength - 1
		}
		wg.Add(1)
		go func(part int, from, to int64) {
			defer wg.Done()
			if err := downloadPart(ctx, client, url, from, to, part, destPath, m); err != nil {
				errs <- err
			}
		}(i, from, to)
	}
	wg.Wait()
	close(errs)
	if err := <-errs; err != nil {
		removeParts(destPath, numThreads)
		return err
	}

	if err := combineParts(destPath, numThreads); err != nil {
		removeParts(destPath, numThreads)
		return err
	}
	return nil
}

// removeParts deletes whatever range part files a failed transfer left
// behind; the completed ranges are useless without the failed one.
func removeParts(destPath string, numThreads int) {
	for i := 0; i < numThreads; i++ {
		_ = os.Remove(partPath(destPath, i))
	}
}

// downloadPart fetches one byte range into its own part file.
func downloadPart(ctx context.Context, client *http.Client, url string, from, to int64, part int, destPath string, m *progressModel) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", util.UserAgent)
	req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", from, to))

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	file, err := os.Create(partPath(destPath, part))
	if err != nil {
		return err
	}
	defer func() {
		if err := file.Close(); err != nil {
			util.Debugf("error closing part file: %v", err)
		}
	}()

	buf := make([]byte, 32*1024)
	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			if _, werr := file.Write(buf[:n]); werr != nil {
				return werr
			}
			m.add(int64(n))
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// combineParts concatenates the part files into destPath and removes them.
func combineParts(destPath string, numThreads int) error {
	out, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := out.Close(); err != nil {
			util.Debugf("error closing output file: %v", err)
		}
	}()

	for i := 0; i < numThreads; i++ {
		path := partPath(destPath, i)
		part, err := os.Open(path)
		if err != nil {
			return err
		}
		_, err = io.Copy(out, part)
		if cerr := part.Close(); cerr != nil {
			util.Debugf("error closing part file: %v", cerr)
		}
		if err != nil {
			return err
		}
		if err := os.Remove(path); err != nil {
			return err
		}
	}
	return nil
}

// downloadSingle streams the whole file in one request when the size is
// unknown and ranges cannot be split.
func downloadSingle(ctx context.Context, client *http.Client, url, destPath string, m *progressModel) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", util.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned: %s", resp.Status)
	}

	file, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := file.Close(); err != nil {
			util.Debugf("error closing file: %v", err)
		}
	}()

	buf := make([]byte, 32*1024)
	for {
		n, rerr := resp.Body.Read(buf)
		if n > 0 {
			if _, werr := file.Write(buf[:n]); werr != nil {
				return werr
			}
			m.add(int64(n))
		}
		if rerr == io.EOF {
			return nil
		}
		if rerr != nil {
			return rerr
		}
	}
}

func partPath(destPath string, part int) string {
	return filepath.Join(filepath.Dir(destPath),
		fmt.Sprintf("%s.part%d", filepath.Base(destPath), part))
}
