package main

import (
	"fmt"
	"io"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

func runHealth(adminURL string, out io.Writer) error {
	client := resty.New().SetBaseURL(adminURL).SetTimeout(10 * time.Second)

	resp, err := client.R().Get("/v1/health")
	if err != nil {
		return errors.Wrap(err, "health request failed")
	}
	fmt.Fprintf(out, "health: %s %s\n", resp.Status(), resp.String())

	resp, err = client.R().Get("/v1/ready")
	if err != nil {
		return errors.Wrap(err, "ready request failed")
	}
	fmt.Fprintf(out, "ready:  %s %s\n", resp.Status(), resp.String())
	return nil
}
