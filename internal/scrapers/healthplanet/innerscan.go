package healthplanet

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const report_client_innerscan = "client.innerscan"

// innerscan timestamps are formatted YYYYMMDDHHMMSS
const innerscanTimeLayout = "20060102150405"

type InnerscanQuery struct {
	// From is the start of the window, it is formatted in its own location.
	From time.Time
	// Tags defaults to DefaultTags.
	Tags []Tag
}

func joinTags(tags []Tag) string {
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = string(t)
	}
	return strings.Join(parts, ",")
}

// Innerscan fetches the body composition measurements recorded since query.From.
func (c *Client) Innerscan(ctx context.Context, token Token, query InnerscanQuery) (InnerscanResponse, error) {
	tags := query.Tags
	if len(tags) == 0 {
		tags = DefaultTags
	}
	from := query.From.Format(innerscanTimeLayout)

	c.tel.ReportDebug(report_client_innerscan, from, tags)

	res, err := c.api.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"access_token": token.AccessToken,
			// 1 selects the measurement date, 0 would select the registration date
			"date": "1",
			"tag":  joinTags(tags),
			"from": from,
		}).
		Get(endpoint_innerscan)
	if err != nil {
		c.tel.ReportBroken(report_client_innerscan, fmt.Errorf("fetch: %w", err))
		return InnerscanResponse{}, fmt.Errorf("healthplanet: innerscan: %w", err)
	}
	if err := checkStatus(endpoint_innerscan, res); err != nil {
		c.tel.ReportBroken(report_client_innerscan, err)
		return InnerscanResponse{}, err
	}

	var parsed InnerscanResponse
	err = json.Unmarshal(res.Body(), &parsed)
	if err != nil {
		c.tel.ReportBroken(report_client_innerscan, fmt.Errorf("unmarshal json: %w", err))
		return InnerscanResponse{}, fmt.Errorf("healthplanet: innerscan: unmarshal json: %w", err)
	}

	c.tel.ReportCount(report_client_innerscan, int64(len(parsed.Data)))
	return parsed, nil
}
