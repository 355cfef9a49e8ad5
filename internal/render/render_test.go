package render

import (
	"bytes"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigatewayv2"
	"github.com/aws/aws-sdk-go-v2/service/apigatewayv2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testLink struct {
	Name      *string           `json:"Name,omitempty"`
	SubnetIds []string          `json:"SubnetIds,omitempty"`
	Nested    *testNested       `json:"Nested,omitempty"`
	Tags      map[string]string `json:"Tags,omitempty"`
	Count     int32
	hidden    string
}

type testNested struct {
	Status string `json:"Status"`
}

func TestPlain_SimpleStruct(t *testing.T) {
	p, err := Plain(testLink{Name: aws.String("link"), hidden: "x"})
	require.NoError(t, err)

	m := p.(map[string]any)
	assert.Equal(t, "link", m["Name"])
	assert.NotContains(t, m, "SubnetIds") // Empty slice should be omitted
	assert.NotContains(t, m, "Nested")    // Nil pointer should be omitted
	assert.NotContains(t, m, "Count")     // Zero int should be omitted
	assert.NotContains(t, m, "hidden")
}

func TestPlain_NestedAndCollections(t *testing.T) {
	p, err := Plain(&testLink{
		Nested:    &testNested{Status: "AVAILABLE"},
		SubnetIds: []string{"subnet-1", "subnet-2"},
		Tags:      map[string]string{"team": "edge"},
		Count:     3,
	})
	require.NoError(t, err)

	m := p.(map[string]any)
	assert.Equal(t, map[string]any{"Status": "AVAILABLE"}, m["Nested"])
	assert.Equal(t, []any{"subnet-1", "subnet-2"}, m["SubnetIds"])
	assert.Equal(t, map[string]any{"team": "edge"}, m["Tags"])
	assert.Equal(t, int64(3), m["Count"])
}

func TestPlain_SDKResponse(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	p, err := Plain(&apigatewayv2.UpdateVpcLinkOutput{
		CreatedDate:   &created,
		VpcLinkId:     aws.String("vpc-123"),
		VpcLinkStatus: types.VpcLinkStatusAvailable,
	})
	require.NoError(t, err)

	m := p.(map[string]any)
	assert.Equal(t, "2024-05-01T12:00:00Z", m["CreatedDate"])
	assert.Equal(t, "vpc-123", m["VpcLinkId"])
	assert.Equal(t, "AVAILABLE", m["VpcLinkStatus"])
	assert.NotContains(t, m, "ResultMetadata")
	assert.NotContains(t, m, "Name")
}

func TestPlain_Scalars(t *testing.T) {
	p, err := Plain("value")
	require.NoError(t, err)
	assert.Equal(t, "value", p)

	p, err = Plain(nil)
	require.NoError(t, err)
	assert.Nil(t, p)

	var nilPtr *testLink
	p, err = Plain(nilPtr)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
		wantErr  bool
	}{
		{"json", FormatJSON, false},
		{"YAML", FormatYAML, false},
		{"text", FormatText, false},
		{"", FormatJSON, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			f, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, f)
		})
	}
}

func TestWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, FormatJSON)

	require.NoError(t, w.Write(&apigatewayv2.GetApiMappingOutput{ApiId: aws.String("api-1")}))
	require.NoError(t, w.Write("plain"))

	assert.Equal(t, "{\n  \"ApiId\": \"api-1\"\n}\n\"plain\"\n", buf.String())
}

func TestWriter_YAMLSeparatesDocuments(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, FormatYAML)

	require.NoError(t, w.Write(map[string]string{"a": "1"}))
	require.NoError(t, w.Write(map[string]string{"b": "2"}))

	assert.Equal(t, "a: \"1\"\n---\nb: \"2\"\n", buf.String())
}

func TestWriter_Text(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, FormatText)

	require.NoError(t, w.Write(&apigatewayv2.GetApiMappingOutput{
		ApiId:        aws.String("api-1"),
		ApiMappingId: aws.String("abc"),
		Stage:        aws.String("prod"),
	}))
	require.NoError(t, w.Write("second"))

	expected := "ApiId        : api-1\n" +
		"ApiMappingId : abc\n" +
		"Stage        : prod\n" +
		"second\n"
	assert.Equal(t, expected, buf.String())
}

func TestText_Inline(t *testing.T) {
	out := Text(map[string]any{
		"SubnetIds": []any{"a", "b"},
		"Tags":      map[string]any{"x": "1", "a": "2"},
	})
	assert.Equal(t, "SubnetIds : {a, b}\nTags      : {a=2, x=1}\n", out)
}

type testRecord struct {
	Index int    `json:"index" yaml:"index"`
	Code  string `json:"code,omitempty" yaml:"code,omitempty"`
	Ok    bool   `json:"ok" yaml:"ok"`
}

func TestWriter_WriteRecordKeepsZeroFields(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf, FormatJSON).WriteRecord(testRecord{}))
	assert.Equal(t, "{\n  \"index\": 0,\n  \"ok\": false\n}\n", buf.String())

	buf.Reset()
	w := NewWriter(&buf, FormatYAML)
	require.NoError(t, w.WriteRecord(testRecord{}))
	require.NoError(t, w.WriteRecord(testRecord{Index: 1, Code: "x"}))
	assert.Equal(t, "index: 0\nok: false\n---\nindex: 1\ncode: x\nok: false\n", buf.String())
}
