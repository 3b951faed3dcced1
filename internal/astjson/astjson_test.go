package astjson

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"alien-vm/internal/lexer"
	"alien-vm/internal/parser"
)

func TestMarshalProducesProgramRoot(t *testing.T) {
	p := parser.New(lexer.New(`
func main() {
  var x = 1 + 2;
  if (x > 2) { print x; } else { print 0; }
}`))
	program := p.ParseProgram()
	require.Empty(t, p.Errors())

	out, err := Marshal(program)
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &doc))

	stmts, ok := doc["Program"].([]interface{})
	require.True(t, ok)
	require.Len(t, stmts, 1)

	fn, ok := stmts[0].(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, "Func", fn["Kind"])
	require.Equal(t, "main", fn["Name"])

	body, ok := fn["Body"].([]interface{})
	require.True(t, ok)
	require.Len(t, body, 2)

	varNode := body[0].(map[string]interface{})
	require.Equal(t, "Var", varNode["Kind"])
	value := varNode["Value"].(map[string]interface{})
	require.Equal(t, "Binary", value["Kind"])
	require.Equal(t, "PLUS", value["Op"])

	ifNode := body[1].(map[string]interface{})
	require.Equal(t, "If", ifNode["Kind"])
	require.NotNil(t, ifNode["Else"])
}
