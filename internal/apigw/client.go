// Package apigw binds the generic operation machinery to the AWS API Gateway
// V2 service: it declares the operation descriptors, projects bound
// parameters onto SDK request types and reads response fields back out.
package apigw

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigatewayv2"
)

// Client is the subset of the API Gateway V2 client the commands call.
// It mirrors the method signatures of *apigatewayv2.Client.
type Client interface {
	GetApiMapping(ctx context.Context, params *apigatewayv2.GetApiMappingInput, optFns ...func(*apigatewayv2.Options)) (*apigatewayv2.GetApiMappingOutput, error)
	GetModelTemplate(ctx context.Context, params *apigatewayv2.GetModelTemplateInput, optFns ...func(*apigatewayv2.Options)) (*apigatewayv2.GetModelTemplateOutput, error)
	UpdateVpcLink(ctx context.Context, params *apigatewayv2.UpdateVpcLinkInput, optFns ...func(*apigatewayv2.Options)) (*apigatewayv2.UpdateVpcLinkOutput, error)
}

// Compile-time check that the SDK client satisfies Client.
var _ Client = (*apigatewayv2.Client)(nil)

// NewClient creates the long-lived service client from an AWS config.
// A non-empty endpointURL overrides endpoint resolution.
func NewClient(cfg aws.Config, endpointURL string) *apigatewayv2.Client {
	return apigatewayv2.NewFromConfig(cfg, func(o *apigatewayv2.Options) {
		if endpointURL != "" {
			o.BaseEndpoint = aws.String(endpointURL)
		}
	})
}

// Endpoint describes the endpoint a client for region talks to. It is used
// for diagnostics only; resolution itself is left to the SDK.
func Endpoint(region, endpointURL string) string {
	if endpointURL != "" {
		return endpointURL
	}
	if region == "" {
		return "apigateway.<unset region>.amazonaws.com"
	}
	return "apigateway." + region + ".amazonaws.com"
}
