package apigw

import (
	"github.com/aws/aws-sdk-go-v2/service/apigatewayv2"

	"github.com/lex00/apigwv2-go/internal/operation"
)

// GetApiMapping returns an API mapping of a custom domain name.
var GetApiMapping Operation = register(&binding[apigatewayv2.GetApiMappingInput, apigatewayv2.GetApiMappingOutput]{
	desc: &operation.Descriptor{
		Name:          "GetApiMapping",
		Command:       "get-api-mapping",
		Synopsis:      "Gets an API mapping",
		DefaultSelect: "*",
		PassThrough:   "DomainName",
		Fields:        []string{"ApiId", "ApiMappingId", "ApiMappingKey", "Stage"},
		Params: []operation.ParameterSpec{
			{
				Name:          "DomainName",
				Required:      true,
				Position:      0,
				Pipeline:      true,
				PipelineValue: true,
				Description:   "The domain name.",
			},
			{
				Name:        "ApiMappingId",
				Required:    true,
				Position:    operation.NoPosition,
				Pipeline:    true,
				Description: "The API mapping identifier.",
			},
		},
	},
	build: func(c *operation.Context) *apigatewayv2.GetApiMappingInput {
		return &apigatewayv2.GetApiMappingInput{
			ApiMappingId: optional(c, "ApiMappingId"),
			DomainName:   optional(c, "DomainName"),
		}
	},
	send: Client.GetApiMapping,
	fields: map[string]func(*apigatewayv2.GetApiMappingOutput) any{
		"ApiId":         func(o *apigatewayv2.GetApiMappingOutput) any { return str(o.ApiId) },
		"ApiMappingId":  func(o *apigatewayv2.GetApiMappingOutput) any { return str(o.ApiMappingId) },
		"ApiMappingKey": func(o *apigatewayv2.GetApiMappingOutput) any { return str(o.ApiMappingKey) },
		"Stage":         func(o *apigatewayv2.GetApiMappingOutput) any { return str(o.Stage) },
	},
})

// GetModelTemplate returns a model template.
var GetModelTemplate Operation = register(&binding[apigatewayv2.GetModelTemplateInput, apigatewayv2.GetModelTemplateOutput]{
	desc: &operation.Descriptor{
		Name:          "GetModelTemplate",
		Command:       "get-model-template",
		Synopsis:      "Gets a model template",
		DefaultSelect: "Value",
		PassThrough:   "ApiId",
		Fields:        []string{"Value"},
		Params: []operation.ParameterSpec{
			{
				Name:          "ApiId",
				Required:      true,
				Position:      0,
				Pipeline:      true,
				PipelineValue: true,
				Description:   "The API identifier.",
			},
			{
				Name:        "ModelId",
				Required:    true,
				Position:    operation.NoPosition,
				Pipeline:    true,
				Description: "The model ID.",
			},
		},
	},
	build: func(c *operation.Context) *apigatewayv2.GetModelTemplateInput {
		return &apigatewayv2.GetModelTemplateInput{
			ApiId:   optional(c, "ApiId"),
			ModelId: optional(c, "ModelId"),
		}
	},
	send: Client.GetModelTemplate,
	fields: map[string]func(*apigatewayv2.GetModelTemplateOutput) any{
		"Value": func(o *apigatewayv2.GetModelTemplateOutput) any { return str(o.Value) },
	},
})

// UpdateVpcLink updates a VPC link. It changes state on the service, so
// invocations are confirmed unless forced.
var UpdateVpcLink Operation = register(&binding[apigatewayv2.UpdateVpcLinkInput, apigatewayv2.UpdateVpcLinkOutput]{
	desc: &operation.Descriptor{
		Name:          "UpdateVpcLink",
		Command:       "update-vpc-link",
		Synopsis:      "Updates a VPC link",
		DefaultSelect: "*",
		Mutating:      true,
		PassThrough:   "VpcLinkId",
		Target:        "VpcLinkId",
		Fields: []string{
			"CreatedDate", "Name", "SecurityGroupIds", "SubnetIds", "Tags",
			"VpcLinkId", "VpcLinkStatus", "VpcLinkStatusMessage", "VpcLinkVersion",
		},
		Params: []operation.ParameterSpec{
			{
				Name:          "VpcLinkId",
				Required:      true,
				Position:      0,
				Pipeline:      true,
				PipelineValue: true,
				Description:   "The ID of the VPC link.",
			},
			{
				Name:        "Name",
				Position:    operation.NoPosition,
				Pipeline:    true,
				Description: "The name of the VPC link.",
			},
		},
	},
	build: func(c *operation.Context) *apigatewayv2.UpdateVpcLinkInput {
		return &apigatewayv2.UpdateVpcLinkInput{
			VpcLinkId: optional(c, "VpcLinkId"),
			Name:      optional(c, "Name"),
		}
	},
	send: Client.UpdateVpcLink,
	fields: map[string]func(*apigatewayv2.UpdateVpcLinkOutput) any{
		"CreatedDate":          func(o *apigatewayv2.UpdateVpcLinkOutput) any { return timestamp(o.CreatedDate) },
		"Name":                 func(o *apigatewayv2.UpdateVpcLinkOutput) any { return str(o.Name) },
		"SecurityGroupIds":     func(o *apigatewayv2.UpdateVpcLinkOutput) any { return list(o.SecurityGroupIds) },
		"SubnetIds":            func(o *apigatewayv2.UpdateVpcLinkOutput) any { return list(o.SubnetIds) },
		"Tags":                 func(o *apigatewayv2.UpdateVpcLinkOutput) any { return dict(o.Tags) },
		"VpcLinkId":            func(o *apigatewayv2.UpdateVpcLinkOutput) any { return str(o.VpcLinkId) },
		"VpcLinkStatus":        func(o *apigatewayv2.UpdateVpcLinkOutput) any { return enum(o.VpcLinkStatus) },
		"VpcLinkStatusMessage": func(o *apigatewayv2.UpdateVpcLinkOutput) any { return str(o.VpcLinkStatusMessage) },
		"VpcLinkVersion":       func(o *apigatewayv2.UpdateVpcLinkOutput) any { return enum(o.VpcLinkVersion) },
	},
})
