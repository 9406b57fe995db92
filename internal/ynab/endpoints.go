package ynab

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/ynab/backoff"
)

const sinceDateLayout = "2006-01-02"

// TransactionsQuery holds the paging and delta parameters of one request.
// Zero Page and zero LastKnowledgeOfServer are left off the query string.
type TransactionsQuery struct {
	SinceDate             time.Time
	Page                  int
	LastKnowledgeOfServer int64
}

func (q TransactionsQuery) values() url.Values {
	values := url.Values{}
	if !q.SinceDate.IsZero() {
		values.Set("since_date", q.SinceDate.Format(sinceDateLayout))
	}
	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if q.LastKnowledgeOfServer > 0 {
		values.Set("last_knowledge_of_server", strconv.FormatInt(q.LastKnowledgeOfServer, 10))
	}
	return values
}

type TransactionsPage struct {
	Transactions    []Transaction   `json:"transactions"`
	ServerKnowledge int64           `json:"server_knowledge"`
	Attempts        int             `json:"-"`
	Raw             json.RawMessage `json:"-"`
}

type EntitiesPage struct {
	Kind            string
	Entities        []Entity
	ServerKnowledge int64
}

func (c *Client) Transactions(ctx context.Context, q TransactionsQuery, policy backoff.Policy) (*TransactionsPage, error) {
	endpoint := "budgets/" + url.PathEscape(c.config.BudgetID) + "/transactions"
	resp, err := c.Fetch(ctx, endpoint, q.values(), policy)
	if err != nil {
		return nil, err
	}

	var page TransactionsPage
	if err := json.Unmarshal(resp.Data, &page); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedResponse, endpoint, err)
	}
	page.Attempts = resp.Attempts
	page.Raw = resp.Data
	return &page, nil
}

func (c *Client) Accounts(ctx context.Context, lastKnowledge int64, policy backoff.Policy) (*EntitiesPage, error) {
	endpoint := "budgets/" + url.PathEscape(c.config.BudgetID) + "/accounts"
	resp, err := c.Fetch(ctx, endpoint, knowledgeQuery(lastKnowledge), policy)
	if err != nil {
		return nil, err
	}

	var data struct {
		Accounts        []Entity `json:"accounts"`
		ServerKnowledge int64    `json:"server_knowledge"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedResponse, endpoint, err)
	}
	return &EntitiesPage{Kind: "account", Entities: data.Accounts, ServerKnowledge: data.ServerKnowledge}, nil
}

// Categories flattens the category groups into one list of categories.
func (c *Client) Categories(ctx context.Context, lastKnowledge int64, policy backoff.Policy) (*EntitiesPage, error) {
	endpoint := "budgets/" + url.PathEscape(c.config.BudgetID) + "/categories"
	resp, err := c.Fetch(ctx, endpoint, knowledgeQuery(lastKnowledge), policy)
	if err != nil {
		return nil, err
	}

	var data struct {
		CategoryGroups []struct {
			Categories []Entity `json:"categories"`
		} `json:"category_groups"`
		ServerKnowledge int64 `json:"server_knowledge"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedResponse, endpoint, err)
	}

	page := &EntitiesPage{Kind: "category", ServerKnowledge: data.ServerKnowledge}
	for _, group := range data.CategoryGroups {
		page.Entities = append(page.Entities, group.Categories...)
	}
	return page, nil
}

func knowledgeQuery(lastKnowledge int64) url.Values {
	values := url.Values{}
	if lastKnowledge > 0 {
		values.Set("last_knowledge_of_server", strconv.FormatInt(lastKnowledge, 10))
	}
	return values
}
