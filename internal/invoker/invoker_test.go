package invoker

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigatewayv2"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lex00/apigwv2-go/internal/apigw"
	"github.com/lex00/apigwv2-go/internal/operation"
)

// fakeClient records calls and returns canned responses.
type fakeClient struct {
	mappingCalls []*apigatewayv2.GetApiMappingInput
	templateCall int
	vpcLinkCalls []*apigatewayv2.UpdateVpcLinkInput

	mapping  *apigatewayv2.GetApiMappingOutput
	template *apigatewayv2.GetModelTemplateOutput
	vpcLink  *apigatewayv2.UpdateVpcLinkOutput
	err      error
	panicMsg string
}

func (f *fakeClient) GetApiMapping(_ context.Context, in *apigatewayv2.GetApiMappingInput, _ ...func(*apigatewayv2.Options)) (*apigatewayv2.GetApiMappingOutput, error) {
	f.mappingCalls = append(f.mappingCalls, in)
	if f.err != nil {
		return nil, f.err
	}
	return f.mapping, nil
}

func (f *fakeClient) GetModelTemplate(_ context.Context, _ *apigatewayv2.GetModelTemplateInput, _ ...func(*apigatewayv2.Options)) (*apigatewayv2.GetModelTemplateOutput, error) {
	f.templateCall++
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.template, nil
}

func (f *fakeClient) UpdateVpcLink(_ context.Context, in *apigatewayv2.UpdateVpcLinkInput, _ ...func(*apigatewayv2.Options)) (*apigatewayv2.UpdateVpcLinkOutput, error) {
	f.vpcLinkCalls = append(f.vpcLinkCalls, in)
	if f.err != nil {
		return nil, f.err
	}
	return f.vpcLink, nil
}

type recordingConfirmer struct {
	answer  bool
	err     error
	targets []string
	actions []string
}

func (r *recordingConfirmer) Confirm(_ context.Context, target, action string) (bool, error) {
	r.targets = append(r.targets, target)
	r.actions = append(r.actions, action)
	return r.answer, r.err
}

func bindVpcLink(t *testing.T, force bool) *operation.Context {
	t.Helper()
	c, err := operation.Bind(apigw.UpdateVpcLink.Descriptor(), operation.Input{
		Named: operation.Values{
			"VpcLinkId": aws.String("vpc-123"),
			"Name":      aws.String("new-name"),
		},
		Force: force,
	})
	require.NoError(t, err)
	return c
}

func TestInvoke_MutatingDeclined(t *testing.T) {
	client := &fakeClient{}
	confirm := &recordingConfirmer{answer: false}
	inv := New(client, Config{Region: "us-east-1"}, WithConfirmer(confirm))

	c := bindVpcLink(t, false)
	res := inv.Invoke(context.Background(), apigw.UpdateVpcLink, c)

	assert.True(t, res.Declined())
	assert.Nil(t, res.Output)
	assert.Nil(t, res.Response)
	assert.NoError(t, res.Err)
	assert.Empty(t, client.vpcLinkCalls, "declined invocation must not reach the client")
	assert.Equal(t, operation.StateDeclined, c.State)

	require.Len(t, confirm.targets, 1)
	assert.Equal(t, "vpc-123", confirm.targets[0])
	assert.Equal(t, "update-vpc-link (UpdateVpcLink)", confirm.actions[0])
}

func TestInvoke_MutatingForced(t *testing.T) {
	resp := &apigatewayv2.UpdateVpcLinkOutput{VpcLinkId: aws.String("vpc-123"), Name: aws.String("new-name")}
	client := &fakeClient{vpcLink: resp}
	confirm := &recordingConfirmer{answer: false}
	inv := New(client, Config{Region: "us-east-1"}, WithConfirmer(confirm))

	res := inv.Invoke(context.Background(), apigw.UpdateVpcLink, bindVpcLink(t, true))

	require.True(t, res.Succeeded(), "err: %v", res.Err)
	assert.Empty(t, confirm.targets, "force must skip confirmation")
	require.Len(t, client.vpcLinkCalls, 1)
	assert.Equal(t, "vpc-123", aws.ToString(client.vpcLinkCalls[0].VpcLinkId))
	assert.Equal(t, "new-name", aws.ToString(client.vpcLinkCalls[0].Name))
	assert.Same(t, resp, res.Output)
	assert.Same(t, resp, res.Response)
}

func TestInvoke_MutatingConfirmed(t *testing.T) {
	client := &fakeClient{vpcLink: &apigatewayv2.UpdateVpcLinkOutput{}}
	inv := New(client, Config{}, WithConfirmer(&recordingConfirmer{answer: true}))

	c := bindVpcLink(t, false)
	res := inv.Invoke(context.Background(), apigw.UpdateVpcLink, c)

	assert.True(t, res.Succeeded())
	assert.Len(t, client.vpcLinkCalls, 1)
	assert.Equal(t, operation.StateSucceeded, c.State)
}

func TestInvoke_MutatingWithoutConfirmerDeclines(t *testing.T) {
	client := &fakeClient{}
	inv := New(client, Config{})

	res := inv.Invoke(context.Background(), apigw.UpdateVpcLink, bindVpcLink(t, false))

	assert.True(t, res.Declined())
	assert.Empty(t, client.vpcLinkCalls)
}

func TestInvoke_ConfirmerError(t *testing.T) {
	client := &fakeClient{}
	inv := New(client, Config{}, WithConfirmer(&recordingConfirmer{err: errors.New("tty closed")}))

	res := inv.Invoke(context.Background(), apigw.UpdateVpcLink, bindVpcLink(t, false))

	assert.True(t, res.Failed())
	assert.Contains(t, res.Err.Error(), "tty closed")
	assert.Empty(t, client.vpcLinkCalls)
}

func TestInvoke_ReadWholeResponse(t *testing.T) {
	resp := &apigatewayv2.GetApiMappingOutput{ApiId: aws.String("api-1"), Stage: aws.String("prod")}
	client := &fakeClient{mapping: resp}
	inv := New(client, Config{Region: "us-east-1"})

	c, err := operation.Bind(apigw.GetApiMapping.Descriptor(), operation.Input{
		Named: operation.Values{
			"ApiMappingId": aws.String("abc"),
			"DomainName":   aws.String("example.com"),
		},
		Select:    "*",
		SelectSet: true,
	})
	require.NoError(t, err)

	res := inv.Invoke(context.Background(), apigw.GetApiMapping, c)

	require.True(t, res.Succeeded())
	require.Len(t, client.mappingCalls, 1)
	assert.Equal(t, "abc", aws.ToString(client.mappingCalls[0].ApiMappingId))
	assert.Equal(t, "example.com", aws.ToString(client.mappingCalls[0].DomainName))
	assert.Same(t, resp, res.Output)
}

func TestInvoke_PassThroughSelect(t *testing.T) {
	client := &fakeClient{mapping: &apigatewayv2.GetApiMappingOutput{ApiId: aws.String("api-1")}}
	inv := New(client, Config{})

	c, err := operation.Bind(apigw.GetApiMapping.Descriptor(), operation.Input{
		Positional: []string{"example.com"},
		Named:      operation.Values{"ApiMappingId": aws.String("abc")},
		PassThru:   true,
	})
	require.NoError(t, err)

	res := inv.Invoke(context.Background(), apigw.GetApiMapping, c)
	require.True(t, res.Succeeded())
	assert.Equal(t, "example.com", res.Output)
}

func TestInvoke_NameResolutionFailure(t *testing.T) {
	dnsErr := &net.DNSError{Err: "no such host", Name: "apigateway.mars-1.amazonaws.com", IsNotFound: true}
	raw := fmt.Errorf("operation error ApiGatewayV2: GetModelTemplate, https response error: %w",
		&url.Error{Op: "Get", URL: "https://apigateway.mars-1.amazonaws.com/v2/apis/a/models/m/template", Err: dnsErr})

	client := &fakeClient{err: raw}
	inv := New(client, Config{Region: "mars-1"})

	c, err := operation.Bind(apigw.GetModelTemplate.Descriptor(), operation.Input{
		Positional: []string{"a"},
		Named:      operation.Values{"ModelId": aws.String("m")},
	})
	require.NoError(t, err)

	res := inv.Invoke(context.Background(), apigw.GetModelTemplate, c)

	require.True(t, res.Failed())
	var terr *TransportError
	require.ErrorAs(t, res.Err, &terr)
	assert.Equal(t, "apigateway.mars-1.amazonaws.com", terr.Endpoint)
	assert.Contains(t, res.Err.Error(), "name resolution failure for endpoint apigateway.mars-1.amazonaws.com")
	assert.Contains(t, res.Err.Error(), `region "mars-1"`)
	assert.NotEqual(t, raw.Error(), res.Err.Error())
	assert.ErrorIs(t, res.Err, dnsErr)
}

func TestInvoke_ServiceError(t *testing.T) {
	apiErr := &smithy.GenericAPIError{Code: "NotFoundException", Message: "Invalid VpcLink identifier specified", Fault: smithy.FaultClient}
	client := &fakeClient{err: fmt.Errorf("operation error: %w", apiErr)}
	inv := New(client, Config{})

	res := inv.Invoke(context.Background(), apigw.UpdateVpcLink, bindVpcLink(t, true))

	require.True(t, res.Failed())
	var serr *ServiceError
	require.ErrorAs(t, res.Err, &serr)
	assert.Equal(t, "NotFoundException", serr.Code)
	assert.Equal(t, "client", serr.Fault)
	assert.Contains(t, serr.Error(), "Invalid VpcLink identifier specified")
}

func TestInvoke_OtherErrorCaptured(t *testing.T) {
	client := &fakeClient{err: context.DeadlineExceeded}
	inv := New(client, Config{})

	res := inv.Invoke(context.Background(), apigw.UpdateVpcLink, bindVpcLink(t, true))

	require.True(t, res.Failed())
	assert.ErrorIs(t, res.Err, context.DeadlineExceeded)
	assert.Contains(t, res.Err.Error(), "UpdateVpcLink")
}

func TestInvoke_PanicCaptured(t *testing.T) {
	client := &fakeClient{panicMsg: "boom"}
	inv := New(client, Config{})

	c, err := operation.Bind(apigw.GetModelTemplate.Descriptor(), operation.Input{
		Positional: []string{"a"},
		Named:      operation.Values{"ModelId": aws.String("m")},
	})
	require.NoError(t, err)

	res := inv.Invoke(context.Background(), apigw.GetModelTemplate, c)
	require.True(t, res.Failed())
	assert.Contains(t, res.Err.Error(), "boom")
	assert.Equal(t, operation.StateFailed, c.State)
}

func TestInvoke_WarningsCarried(t *testing.T) {
	client := &fakeClient{template: &apigatewayv2.GetModelTemplateOutput{Value: aws.String("{}")}}
	inv := New(client, Config{})

	c, err := operation.Bind(apigw.GetModelTemplate.Descriptor(), operation.Input{
		Named: operation.Values{"ApiId": aws.String("a"), "ModelId": nil},
	})
	require.NoError(t, err)

	res := inv.Invoke(context.Background(), apigw.GetModelTemplate, c)
	require.True(t, res.Succeeded())
	assert.Equal(t, "{}", res.Output)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "ModelId")
	assert.Equal(t, 1, client.templateCall)
}

func TestConfirmFunc(t *testing.T) {
	var got string
	f := ConfirmFunc(func(_ context.Context, target, _ string) (bool, error) {
		got = target
		return true, nil
	})
	ok, err := f.Confirm(context.Background(), "vpc-1", "update")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "vpc-1", got)
}
