package sigfox

import (
	"context"
	"net/url"
)

// ContractInfosService exposes connectivity contract information.
// Contracts are read-only through the v2 API.
type ContractInfosService struct {
	c *Client
}

// ContractInfo is a Sigfox connectivity contract record.
type ContractInfo struct {
	ID                   string     `json:"id,omitempty"`
	Name                 string     `json:"name,omitempty"`
	ContractID           string     `json:"contractId,omitempty"`
	Group                *PathGroup `json:"group,omitempty"`
	StartTime            int64      `json:"startTime,omitempty"`
	ActivationEndTime    int64      `json:"activationEndTime,omitempty"`
	CommunicationEndTime int64      `json:"communicationEndTime,omitempty"`
	Timezone             string     `json:"timezone,omitempty"`
	Bidir                bool       `json:"bidir,omitempty"`
	MaxUplinkFrames      int        `json:"maxUplinkFrames,omitempty"`
	MaxDownlinkFrames    int        `json:"maxDownlinkFrames,omitempty"`
	MaxTokens            int        `json:"maxTokens,omitempty"`
	TokensInUse          int        `json:"tokensInUse,omitempty"`
	TokensUsed           int        `json:"tokensUsed,omitempty"`
	AutomaticRenewal     bool       `json:"automaticRenewal,omitempty"`
	PricingModel         int        `json:"pricingModel,omitempty"`
	SubscriptionPlan     int        `json:"subscriptionPlan,omitempty"`
	CreationTime         int64      `json:"creationTime,omitempty"`
}

// List returns one page of contracts. Supported filter keys: FilterName,
// FilterGroupID, FilterPageID.
func (s *ContractInfosService) List(ctx context.Context, q ListQuery) ([]ContractInfo, error) {
	return listResources[ContractInfo](ctx, s.c, "/contract-infos", q)
}

// Get fetches a single contract by ID.
func (s *ContractInfosService) Get(ctx context.Context, contractID string) (*ContractInfo, error) {
	if contractID == "" {
		return nil, &APIError{Kind: KindValidation, Message: "contract id is required"}
	}
	return getResource[ContractInfo](ctx, s.c, "/contract-infos/"+url.PathEscape(contractID), nil)
}

// Devices returns one page of the devices attached to a contract.
// Supported filter keys: FilterDeviceTypeID, FilterPageID.
func (s *ContractInfosService) Devices(ctx context.Context, contractID string, q ListQuery) ([]Device, error) {
	if contractID == "" {
		return nil, &APIError{Kind: KindValidation, Message: "contract id is required"}
	}
	return listResources[Device](ctx, s.c, "/contract-infos/"+url.PathEscape(contractID)+"/devices", q)
}
