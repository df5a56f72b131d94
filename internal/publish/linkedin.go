// Package publish posts assistant replies to LinkedIn through its REST API.
package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	restliProtocolVersion = "2.0.0"

	defaultLinkedInURL = "https://api.linkedin.com"
	defaultVersion     = "202502"
)

// Credentials authorize posting on behalf of one member.
type Credentials struct {
	AccessToken string `json:"accessToken"`
	AuthorURN   string `json:"authorUrn"`
}

// Client wraps the publish backend (credential exchange) and the LinkedIn
// REST API (uploads and posts).
type Client struct {
	publishURL  string
	linkedInURL string
	version     string
	httpClient  *http.Client
}

// New creates a publish client. publishURL is the credential exchange
// backend; linkedInURL and version default to the public LinkedIn API and
// its pinned monthly version when empty.
func New(publishURL, linkedInURL, version string) *Client {
	if linkedInURL == "" {
		linkedInURL = defaultLinkedInURL
	}
	if version == "" {
		version = defaultVersion
	}

	timeout := 60 * time.Second
	if t := os.Getenv("AUTOLINKED_PUBLISH_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			timeout = d
		}
	}

	return &Client{
		publishURL:  strings.TrimRight(publishURL, "/"),
		linkedInURL: strings.TrimRight(linkedInURL, "/"),
		version:     version,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Exchange fetches a member access token and author URN for userID from the
// publish backend.
func (c *Client) Exchange(ctx context.Context, userID string) (Credentials, error) {
	if c.publishURL == "" {
		return Credentials{}, fmt.Errorf("exchange credentials: no publish backend configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.publishURL+"/credentials?user-id="+url.QueryEscape(userID), nil)
	if err != nil {
		return Credentials{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Credentials{}, fmt.Errorf("exchange credentials: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Credentials{}, newStatusError(resp)
	}

	var creds Credentials
	if err := json.NewDecoder(resp.Body).Decode(&creds); err != nil {
		return Credentials{}, fmt.Errorf("decode credentials: %w", err)
	}
	if creds.AccessToken == "" || creds.AuthorURN == "" {
		return Credentials{}, fmt.Errorf("exchange credentials: incomplete response")
	}
	return creds, nil
}

type initializeUploadRequest struct {
	Owner string `json:"owner"`
}

type initializeUploadResponse struct {
	Value struct {
		UploadURL string `json:"uploadUrl"`
		Image     string `json:"image"`
	} `json:"value"`
}

// UploadImage registers an image upload with LinkedIn and pushes the bytes
// to the returned upload URL. It returns the image URN to reference from a
// post.
func (c *Client) UploadImage(ctx context.Context, creds Credentials, data []byte) (string, error) {
	payload, err := json.Marshal(map[string]initializeUploadRequest{
		"initializeUploadRequest": {Owner: creds.AuthorURN},
	})
	if err != nil {
		return "", fmt.Errorf("marshal upload request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.linkedInURL+"/rest/images?action=initializeUpload", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req, creds)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("initialize upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", newStatusError(resp)
	}

	var init initializeUploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&init); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	if init.Value.UploadURL == "" || init.Value.Image == "" {
		return "", fmt.Errorf("initialize upload: incomplete response")
	}

	put, err := http.NewRequestWithContext(ctx, http.MethodPut, init.Value.UploadURL, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("create upload request: %w", err)
	}
	put.Header.Set("Authorization", "Bearer "+creds.AccessToken)

	uploadResp, err := c.httpClient.Do(put)
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	defer uploadResp.Body.Close()
	io.Copy(io.Discard, uploadResp.Body)

	if uploadResp.StatusCode != http.StatusCreated && uploadResp.StatusCode != http.StatusOK {
		return "", newStatusError(uploadResp)
	}
	return init.Value.Image, nil
}

type postDistribution struct {
	FeedDistribution               string   `json:"feedDistribution"`
	TargetEntities                 []string `json:"targetEntities"`
	ThirdPartyDistributionChannels []string `json:"thirdPartyDistributionChannels"`
}

type postMedia struct {
	ID string `json:"id"`
}

type postRequest struct {
	Author                    string           `json:"author"`
	Commentary                string           `json:"commentary"`
	Visibility                string           `json:"visibility"`
	Distribution              postDistribution `json:"distribution"`
	Content                   *postContent     `json:"content,omitempty"`
	LifecycleState            string           `json:"lifecycleState"`
	IsReshareDisabledByAuthor bool             `json:"isReshareDisabledByAuthor"`
}

type postContent struct {
	Media postMedia `json:"media"`
}

// Post publishes text as a public feed post. mediaURN optionally attaches a
// previously uploaded image. LinkedIn answers 201 Created on success; any
// other status is returned as a *StatusError.
func (c *Client) Post(ctx context.Context, creds Credentials, text, mediaURN string) error {
	post := postRequest{
		Author:     creds.AuthorURN,
		Commentary: text,
		Visibility: "PUBLIC",
		Distribution: postDistribution{
			FeedDistribution:               "MAIN_FEED",
			TargetEntities:                 []string{},
			ThirdPartyDistributionChannels: []string{},
		},
		LifecycleState:            "PUBLISHED",
		IsReshareDisabledByAuthor: false,
	}
	if mediaURN != "" {
		post.Content = &postContent{Media: postMedia{ID: mediaURN}}
	}

	payload, err := json.Marshal(post)
	if err != nil {
		return fmt.Errorf("marshal post: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.linkedInURL+"/rest/posts", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req, creds)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("publish post: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusCreated {
		return newStatusError(resp)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request, creds Credentials) {
	req.Header.Set("Authorization", "Bearer "+creds.AccessToken)
	req.Header.Set("X-Restli-Protocol-Version", restliProtocolVersion)
	req.Header.Set("LinkedIn-Version", c.version)
	req.Header.Set("Content-Type", "application/json")
}
