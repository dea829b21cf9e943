package main

import (
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// WriteCounter counts the number of bytes written to a stream.
type WriteCounter struct {
	Total uint64
}

func (wc *WriteCounter) Write(p []byte) (int, error) {
	n := len(p)
	wc.Total += uint64(n)
	wc.PrintProgress()
	return n, nil
}

// PrintProgress prints the download progress.
func (wc WriteCounter) PrintProgress() {
	fmt.Printf("\rDownloading... %d MB complete", wc.Total/1024/1024)
}

// downloadFile downloads a URL to a file. It will overwrite the file if it
// already exists. URLs ending in .gz are decompressed on the fly.
func downloadFile(filepath string, url string) error {
	// Create the file with a temporary name
	out, err := os.Create(filepath + ".tmp")
	if err != nil {
		return err
	}

	// Get the data
	resp, err := http.Get(url)
	if err != nil {
		out.Close()
		return err
	}
	defer resp.Body.Close()

	// Check server response
	if resp.StatusCode != http.StatusOK {
		out.Close()
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	// Create our progress counter and tee the response body to it
	counter := &WriteCounter{}
	var reader io.Reader = io.TeeReader(resp.Body, counter)

	if strings.HasSuffix(url, ".gz") {
		gz, err := gzip.NewReader(reader)
		if err != nil {
			out.Close()
			return err
		}
		defer gz.Close()
		reader = gz
	}

	// Write the body to file
	_, err = io.Copy(out, reader)
	if err != nil {
		out.Close()
		return err
	}

	fmt.Println() // New line after download completes
	out.Close()

	// Rename the temp file to the final name
	return os.Rename(filepath+".tmp", filepath)
}
