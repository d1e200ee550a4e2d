package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/PRANAVSONAR23/Pair-Programming-Server/internal/service"
)

func TestAutocomplete_PythonDef(t *testing.T) {
	svc := service.NewAutocompleteService()

	suggestion, all := svc.Suggest("def ", 4, "python")

	assert.Equal(t, "def function_name(param1, param2):\n    pass", suggestion)
	assert.Equal(t, []string{"def function_name(param1, param2):\n    pass"}, all)
}

func TestAutocomplete_UsesLineAtCursor(t *testing.T) {
	svc := service.NewAutocompleteService()

	// 光标在第二行的 "for " 之后，建议应基于该行而不是整个文档
	code := "x = 1\nfor "
	suggestion, _ := svc.Suggest(code, len(code), "python")

	assert.Equal(t, "for item in items:\n    print(item)", suggestion)
}

func TestAutocomplete_CursorClampedToBounds(t *testing.T) {
	svc := service.NewAutocompleteService()

	// 越界偏移被钳制到代码长度，不报错
	suggestion, _ := svc.Suggest("def ", 1000, "python")
	assert.Equal(t, "def function_name(param1, param2):\n    pass", suggestion)

	// 负偏移钳制为 0，落到默认候选
	suggestion, all := svc.Suggest("def ", -5, "python")
	assert.Equal(t, "def ", suggestion)
	assert.Contains(t, all, "class ")
}

func TestAutocomplete_UnknownLanguageYieldsEmpty(t *testing.T) {
	svc := service.NewAutocompleteService()

	suggestion, all := svc.Suggest("def ", 4, "haskell")

	assert.Empty(t, suggestion)
	assert.Empty(t, all)
}

func TestAutocomplete_LanguageDecisionLists(t *testing.T) {
	svc := service.NewAutocompleteService()

	cases := []struct {
		name     string
		code     string
		language string
		want     string
	}{
		{"python class", "class ", "python", "class ClassName:\n    def __init__(self):\n        pass"},
		{"python print contains", "  print", "python", "print()"},
		{"javascript console", "console", "javascript", "console.log()"},
		{"typescript shares js rules", "const ", "typescript", "const variable = "},
		{"java system", "System", "java", "System.out.println()"},
		{"cpp include", "#include", "cpp", "#include <iostream>"},
		{"c++ alias", "cout", "c++", "cout << \"\" << endl;"},
		{"language tag is case-insensitive", "def ", "Python", "def function_name(param1, param2):\n    pass"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			suggestion, all := svc.Suggest(tc.code, len([]rune(tc.code)), tc.language)
			assert.Equal(t, tc.want, suggestion)
			assert.NotEmpty(t, all)
		})
	}
}
