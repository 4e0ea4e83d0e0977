package extractor

import (
	"encoding/json"

	"github.com/orgball2608/insta-downloader/internal/domain"
)

type graphQLResponse struct {
	GraphQL *struct {
		ShortcodeMedia *shortcodeMedia `json:"shortcode_media"`
	} `json:"graphql"`
}

type shortcodeMedia struct {
	graphQLNode
	Children *struct {
		Edges []struct {
			Node *graphQLNode `json:"node"`
		} `json:"edges"`
	} `json:"edge_sidecar_to_children"`
	CaptionEdges *struct {
		Edges []struct {
			Node *struct {
				Text string `json:"text"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"edge_media_to_caption"`
	Owner *struct {
		Username string `json:"username"`
	} `json:"owner"`
}

type graphQLNode struct {
	IsVideo    bool   `json:"is_video"`
	VideoURL   string `json:"video_url"`
	DisplayURL string `json:"display_url"`
}

// mediaItem applies the video-or-image rule. ok is false when the node has no usable URL.
func (n graphQLNode) mediaItem() (domain.MediaItem, bool) {
	if n.IsVideo && n.VideoURL != "" {
		return domain.NewVideo(n.VideoURL, n.DisplayURL), true
	}
	if n.DisplayURL == "" {
		return domain.MediaItem{}, false
	}
	return domain.NewImage(n.DisplayURL), true
}

// fromStructuredData maps the JSON rendering of a post (the ?__a=1 response).
func fromStructuredData(body []byte) (*domain.ExtractionResult, bool) {
	var resp graphQLResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, false
	}
	if resp.GraphQL == nil || resp.GraphQL.ShortcodeMedia == nil {
		return nil, false
	}
	post := resp.GraphQL.ShortcodeMedia

	var media []domain.MediaItem
	if post.Children != nil {
		for _, edge := range post.Children.Edges {
			if edge.Node == nil {
				continue
			}
			if item, ok := edge.Node.mediaItem(); ok {
				media = append(media, item)
			}
		}
	} else if item, ok := post.mediaItem(); ok {
		media = append(media, item)
	}

	if len(media) == 0 {
		return nil, false
	}

	result := &domain.ExtractionResult{Media: media}
	if post.CaptionEdges != nil && len(post.CaptionEdges.Edges) > 0 && post.CaptionEdges.Edges[0].Node != nil {
		result.Caption = post.CaptionEdges.Edges[0].Node.Text
	}
	if post.Owner != nil {
		result.Username = post.Owner.Username
	}
	return result, true
}
