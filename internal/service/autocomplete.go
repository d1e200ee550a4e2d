package service

import "strings"

// AutocompleteService 是基于规则的补全建议器。
// 纯函数：取光标所在行的前缀，按语言套一组固定的前缀/包含判断，
// 命中哪条就返回哪条的候选列表。无状态，完全确定。
type AutocompleteService struct{}

// NewAutocompleteService 创建 AutocompleteService 实例。
func NewAutocompleteService() *AutocompleteService {
	return &AutocompleteService{}
}

// Suggest 根据代码、光标偏移和语言标签返回首选建议和完整候选列表。
// 光标偏移越界时被钳制到 [0, len(code)]；未知语言返回空列表。
func (s *AutocompleteService) Suggest(code string, cursorPosition int, language string) (string, []string) {
	line := currentLine(code, cursorPosition)
	trimmed := strings.TrimSpace(line)

	var suggestions []string
	switch strings.ToLower(language) {
	case "python":
		suggestions = pythonSuggestions(line, trimmed)
	case "javascript", "typescript":
		suggestions = javascriptSuggestions(line, trimmed)
	case "java":
		suggestions = javaSuggestions(line, trimmed)
	case "cpp", "c++":
		suggestions = cppSuggestions(line, trimmed)
	}

	if len(suggestions) == 0 {
		return "", []string{}
	}
	return suggestions[0], suggestions
}

// currentLine 返回光标所在行从行首到光标处的子串。
// 按 rune 钳制偏移，避免把多字节字符截断在中间。
func currentLine(code string, cursor int) string {
	runes := []rune(code)
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(runes) {
		cursor = len(runes)
	}
	upToCursor := string(runes[:cursor])
	if idx := strings.LastIndex(upToCursor, "\n"); idx >= 0 {
		return upToCursor[idx+1:]
	}
	return upToCursor
}

func pythonSuggestions(line, trimmed string) []string {
	switch {
	case strings.HasPrefix(trimmed, "def "):
		return []string{"def function_name(param1, param2):\n    pass"}
	case strings.HasPrefix(trimmed, "class "):
		return []string{"class ClassName:\n    def __init__(self):\n        pass"}
	case strings.HasPrefix(trimmed, "for "):
		return []string{"for item in items:\n    print(item)"}
	case strings.HasPrefix(trimmed, "if "):
		return []string{"if condition:\n    pass"}
	case strings.Contains(line, "print"):
		return []string{"print()", "print(f\"{variable}\")"}
	case strings.Contains(line, "import"):
		return []string{"import os", "import sys", "from module import function"}
	default:
		return []string{"def ", "class ", "for ", "if ", "while ", "try:"}
	}
}

func javascriptSuggestions(line, trimmed string) []string {
	switch {
	case strings.HasPrefix(trimmed, "function "):
		return []string{"function name(params) {\n  return;\n}"}
	case strings.HasPrefix(trimmed, "const "):
		return []string{"const variable = ", "const array = []", "const object = {}"}
	case strings.HasPrefix(trimmed, "for "):
		return []string{"for (let i = 0; i < length; i++) {\n  \n}"}
	case strings.Contains(line, "console"):
		return []string{"console.log()", "console.error()", "console.warn()"}
	case strings.HasPrefix(trimmed, "if "):
		return []string{"if (condition) {\n  \n}"}
	default:
		return []string{"function ", "const ", "let ", "if ", "for ", "async "}
	}
}

func javaSuggestions(line, trimmed string) []string {
	switch {
	case strings.HasPrefix(trimmed, "public "):
		return []string{"public class ClassName {\n  \n}", "public void methodName() {\n  \n}"}
	case strings.HasPrefix(trimmed, "private "):
		return []string{"private int variable;", "private void methodName() {\n  \n}"}
	case strings.Contains(line, "System"):
		return []string{"System.out.println()", "System.out.print()"}
	case strings.HasPrefix(trimmed, "for "):
		return []string{"for (int i = 0; i < length; i++) {\n  \n}"}
	default:
		return []string{"public ", "private ", "protected ", "class ", "interface "}
	}
}

func cppSuggestions(line, trimmed string) []string {
	switch {
	case strings.Contains(line, "#include"):
		return []string{"#include <iostream>", "#include <vector>", "#include <string>"}
	case strings.HasPrefix(trimmed, "for "):
		return []string{"for (int i = 0; i < n; i++) {\n  \n}"}
	case strings.Contains(line, "cout"):
		return []string{"cout << \"\" << endl;", "cout << variable << endl;"}
	case strings.Contains(line, "std::"):
		return []string{"std::vector", "std::string", "std::cout"}
	default:
		return []string{"#include ", "using namespace std;", "int ", "void ", "class "}
	}
}
