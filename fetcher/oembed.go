package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"ewintr.nl/tubescribe/model"
)

const DefaultOEmbedEndpoint = "https://www.youtube.com/oembed"

type OEmbedInfo struct {
	Endpoint string
	Client   *http.Client
}

// OEmbed fetches metadata from the public oEmbed endpoint. It needs no
// credentials.
type OEmbed struct {
	endpoint string
	client   *http.Client
}

func NewOEmbed(info OEmbedInfo) *OEmbed {
	o := &OEmbed{
		endpoint: info.Endpoint,
		client:   info.Client,
	}
	if o.endpoint == "" {
		o.endpoint = DefaultOEmbedEndpoint
	}
	if o.client == nil {
		o.client = http.DefaultClient
	}

	return o
}

type oEmbedResponse struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ThumbnailURL string `json:"thumbnail_url"`
}

func (o *OEmbed) FetchMetadata(ctx context.Context, ytID model.YoutubeVideoID) (Metadata, error) {
	resp, err := o.get(ctx, ytID)
	if err != nil {
		return Metadata{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Metadata{}, &MetadataError{StatusCode: resp.StatusCode}
	}

	var body oEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Metadata{}, fmt.Errorf("could not decode oembed response: %w", err)
	}

	md := Metadata{
		Title:     body.Title,
		Channel:   body.AuthorName,
		Thumbnail: body.ThumbnailURL,
	}
	if md.Thumbnail == "" {
		md.Thumbnail = ytID.ThumbnailURL()
	}

	return md, nil
}

// CheckPlayable asks the same endpoint again; oEmbed only answers for videos
// that are public and embeddable.
func (o *OEmbed) CheckPlayable(ctx context.Context, ytID model.YoutubeVideoID) error {
	resp, err := o.get(ctx, ytID)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: oembed status %d", ErrNotPlayable, resp.StatusCode)
	}

	return nil
}

func (o *OEmbed) get(ctx context.Context, ytID model.YoutubeVideoID) (*http.Response, error) {
	q := url.Values{}
	q.Set("url", ytID.WatchURL())
	q.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("could not create oembed request: %w", err)
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not reach oembed endpoint: %w", err)
	}

	return resp, nil
}
