// Command imageupload attaches an image file to a product: it asks the API
// for a presigned upload URL and PUTs the file straight to object storage.
//
//	imageupload -a http://localhost:8080 -p 12 -f lamp.png [-t <access token>]
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/dmitrijs2005/shopkeeper/internal/netx"
)

type options struct {
	apiAddr   string
	productID int64
	file      string
	token     string
}

func parseFlags(args []string) (*options, error) {
	o := &options{}
	fs := flag.NewFlagSet("imageupload", flag.ContinueOnError)
	fs.StringVar(&o.apiAddr, "a", "http://localhost:8080", "API base URL")
	fs.Int64Var(&o.productID, "p", 0, "product id")
	fs.StringVar(&o.file, "f", "", "image file")
	fs.StringVar(&o.token, "t", "", "bearer access token")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if o.productID <= 0 || o.file == "" {
		return nil, errors.New("-p and -f are required")
	}
	return o, nil
}

type uploadGrant struct {
	UploadURL string `json:"upload_url"`
	Image     string `json:"image"`
	Error     string `json:"error"`
}

func requestGrant(ctx context.Context, client *http.Client, o *options) (*uploadGrant, error) {
	url := fmt.Sprintf("%s/api/products/%d/image", strings.TrimRight(o.apiAddr, "/"), o.productID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return nil, err
	}
	if o.token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+o.token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	g := &uploadGrant{}
	if err := json.NewDecoder(resp.Body).Decode(g); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("api: %s: %s", resp.Status, g.Error)
	}
	return g, nil
}

func run(ctx context.Context, client *http.Client, args []string, out io.Writer) error {
	o, err := parseFlags(args)
	if err != nil {
		return err
	}

	f, err := os.Open(o.file)
	if err != nil {
		return err
	}
	defer f.Close()

	g, err := requestGrant(ctx, client, o)
	if err != nil {
		return err
	}

	ct := mime.TypeByExtension(filepath.Ext(o.file))
	if err := netx.UploadToPresignedURL(ctx, client, g.UploadURL, f, ct); err != nil {
		return err
	}

	fmt.Fprintf(out, "product %d image stored as %s\n", o.productID, g.Image)
	return nil
}

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := run(ctx, &http.Client{}, os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("%v", err)
	}
}
