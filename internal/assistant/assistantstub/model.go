package assistantstub

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

const systemPrompt = "Bạn là trợ lý ảo của siêu thị Mega Market. " +
	"Trả lời ngắn gọn, thân thiện, bằng tiếng Việt. " +
	"Nếu khách hỏi về sản phẩm hoặc đơn hàng cụ thể, hãy hướng dẫn họ nêu rõ từ khóa hoặc mã đơn hàng."

// ModelResponder generates free-text replies through an eino chat chain.
type ModelResponder struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewModelResponder compiles the prompt/model chain once.
func NewModelResponder(ctx context.Context, chatModel model.ChatModel) (*ModelResponder, error) {
	template := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(template)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &ModelResponder{chain: runnable}, nil
}

// Generate produces one reply for a user message.
func (m *ModelResponder) Generate(ctx context.Context, message string) (string, error) {
	response, err := m.chain.Invoke(ctx, map[string]any{
		"system": systemPrompt,
		"query":  message,
	})
	if err != nil {
		return "", fmt.Errorf("failed to run chat chain: %w", err)
	}
	return response.Content, nil
}
