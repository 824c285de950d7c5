package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/go-resty/resty/v2"
)

func newClient(api string) *resty.Client {
	return resty.New().
		SetBaseURL(api).
		SetTimeout(90*time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
}

// check turns non-2xx responses into errors carrying the server's message.
func check(resp *resty.Response, err error) ([]byte, error) {
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		var e struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(resp.Body(), &e) == nil && e.Message != "" {
			return nil, fmt.Errorf("http %d: %s", resp.StatusCode(), e.Message)
		}
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode(), string(resp.Body()))
	}
	return resp.Body(), nil
}

func printJSON(out io.Writer, data []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		_, err = out.Write(data)
		return err
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(out)
	return err
}
