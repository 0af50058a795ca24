package cloudinary

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"partsbay/internal/domain/entity"
)

// Client wraps the Cloudinary SDK for the three things the marketplace
// needs: direct-upload signatures for browsers, server-side image uploads
// from the bot, and raw uploads for generated sticker PDFs.
type Client struct {
	cld       *cloudinary.Cloudinary
	apiKey    string
	apiSecret string
}

func NewClient(cloudName, apiKey, apiSecret string) (*Client, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to init cloudinary: %w", err)
	}
	return &Client{cld: cld, apiKey: apiKey, apiSecret: apiSecret}, nil
}

// SignUploadBatch produces one signed parameter set per public id so a
// client can upload straight to Cloudinary without proxying bytes through
// the API.
func (c *Client) SignUploadBatch(folder string, publicIDs []string) ([]entity.SignedUploadParams, error) {
	timestamp := time.Now().Unix()

	result := make([]entity.SignedUploadParams, 0, len(publicIDs))
	for _, publicID := range publicIDs {
		params := url.Values{}
		params.Set("public_id", publicID)
		params.Set("folder", folder)
		params.Set("timestamp", strconv.FormatInt(timestamp, 10))

		signature, err := api.SignParameters(params, c.apiSecret)
		if err != nil {
			return nil, fmt.Errorf("failed to sign upload params: %w", err)
		}

		result = append(result, entity.SignedUploadParams{
			PublicID:  publicID,
			Folder:    folder,
			Timestamp: timestamp,
			APIKey:    c.apiKey,
			Signature: signature,
		})
	}
	return result, nil
}

// UploadImage uploads image bytes and returns the delivery URL.
func (c *Client) UploadImage(ctx context.Context, r io.Reader, folder, publicID string) (string, error) {
	resp, err := c.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		PublicID:     publicID,
		Folder:       folder,
		ResourceType: "image",
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload failed: %w", err)
	}
	return resp.SecureURL, nil
}

// UploadRaw uploads a non-image asset (sticker PDFs) and returns its URL.
func (c *Client) UploadRaw(ctx context.Context, data []byte, folder, publicID string) (string, error) {
	resp, err := c.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		PublicID:     publicID,
		Folder:       folder,
		ResourceType: "raw",
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary raw upload failed: %w", err)
	}
	return resp.SecureURL, nil
}
