package gateway

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/jovincart/storefront/apperrors"
	"github.com/jovincart/storefront/models"
)

// Products fetches the full catalog.
func (c *Client) Products(ctx context.Context) ([]models.Product, error) {
	var resp struct {
		Products []models.Product `json:"products"`
	}
	if err := c.do(ctx, http.MethodGet, "/get-data", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

// CreateProduct adds a catalog entry (admin only).
func (c *Client) CreateProduct(ctx context.Context, p models.Product) (models.Product, error) {
	var resp struct {
		Product models.Product `json:"product"`
	}
	if err := c.do(ctx, http.MethodPost, "/admin-management", p, &resp); err != nil {
		return models.Product{}, err
	}
	return resp.Product, nil
}

// DeleteProduct removes a catalog entry (admin only).
func (c *Client) DeleteProduct(ctx context.Context, productID string) error {
	return c.do(ctx, http.MethodDelete, "/delete-product/"+productID, nil, nil)
}

// UploadImage streams a product image to the backend and returns its served
// URL. Multipart rather than JSON, so it bypasses the shared do helper.
func (c *Client) UploadImage(ctx context.Context, path string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)
	go func() {
		part, err := form.CreateFormFile("file", filepath.Base(path))
		if err == nil {
			_, err = io.Copy(part, file)
		}
		if err == nil {
			err = form.Close()
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", pr)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	c.attachAuth(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", apperrors.ErrNetworkUnavailable.WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", apperrors.Remote(resp.StatusCode, string(msg))
	}

	var out struct {
		URL string `json:"url"`
	}
	if err := jsonDecode(resp.Body, &out); err != nil {
		return "", err
	}
	if out.URL == "" {
		return "", apperrors.ErrRemoteRejected.WithCause(fmt.Errorf("upload reply missing url"))
	}
	return out.URL, nil
}
