package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Mieluoxxx/aiconfig-hub/internal/auth"
	"github.com/Mieluoxxx/aiconfig-hub/internal/client"
	"github.com/Mieluoxxx/aiconfig-hub/internal/config"
	"github.com/Mieluoxxx/aiconfig-hub/internal/logger"
	"github.com/Mieluoxxx/aiconfig-hub/internal/transport"
)

const usage = `用法: aiconfig [-config path] [-base-url url] [-token jwt] <command> [flags]

命令:
  list     分页查询 (-page -size -keyword)
  add      新增 (-name -type -url -key -remark)
  update   更新 (-id -name -type -url -key -remark)
  delete   删除 (-id)
  enable   启用 (-id)
  disable  禁用 (-id)
  test     测试连接 (-id -name -type -url -key)
  token    签发 JWT (-role -subject -ttl)
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run 执行命令并返回退出码
func run(args []string, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("aiconfig", flag.ContinueOnError)
	global.SetOutput(stderr)
	global.Usage = func() { fmt.Fprint(stderr, usage) }
	configPath := global.String("config", os.Getenv("AICONFIG_CONFIG"), "配置文件路径")
	baseURL := global.String("base-url", "", "后端地址，覆盖 client.base_url")
	token := global.String("token", "", "JWT，覆盖 client.token")
	verbose := global.Bool("v", false, "输出请求日志")
	if err := global.Parse(args); err != nil {
		return 2
	}

	rest := global.Args()
	if len(rest) == 0 {
		global.Usage()
		return 2
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "加载配置失败: %v\n", err)
		return 1
	}
	if *baseURL != "" {
		cfg.Client.BaseURL = *baseURL
	}
	if *token != "" {
		cfg.Client.Token = *token
	}

	command, cmdArgs := rest[0], rest[1:]
	if command == "token" {
		return issueToken(cfg, cmdArgs, stdout, stderr)
	}

	level := "warn"
	if *verbose {
		level = "debug"
	}
	c := client.New(transport.NewHTTPTransport(transport.Options{
		BaseURL: cfg.Client.BaseURL,
		Token:   cfg.Client.Token,
		Timeout: cfg.Client.Timeout,
		Logger:  logger.NewWithOutput(level, "text", stderr),
	}))

	call, err := parseCommand(c, command, cmdArgs, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	raw, err := call(context.Background())
	if err != nil {
		var statusErr *transport.StatusError
		if errors.As(err, &statusErr) {
			fmt.Fprintln(stderr, string(statusErr.Body))
		} else {
			fmt.Fprintf(stderr, "请求失败: %v\n", err)
		}
		return 1
	}

	fmt.Fprintln(stdout, string(raw))
	return 0
}

type callFunc func(ctx context.Context) (json.RawMessage, error)

// parseCommand 解析子命令参数并返回对应的客户端调用
func parseCommand(c *client.Client, command string, args []string, stderr io.Writer) (callFunc, error) {
	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	fs.SetOutput(stderr)

	switch command {
	case "list":
		var p client.SearchParams
		fs.IntVar(&p.Page, "page", 0, "页码，从 0 开始")
		fs.IntVar(&p.Size, "size", 10, "每页数量")
		fs.StringVar(&p.SearchKeyWord, "keyword", "", "按名称或备注搜索")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		return func(ctx context.Context) (json.RawMessage, error) { return c.List(ctx, p) }, nil

	case "add", "update", "test":
		var f client.AiConfigForm
		if command != "add" {
			fs.StringVar(&f.ID, "id", "", "配置 ID")
		}
		fs.StringVar(&f.Name, "name", "", "配置名称")
		fs.StringVar(&f.ModelType, "type", "", "模型类型: QWEN, CHATGPT_4O, GEMINI, CLAUDE, ERNIE")
		fs.StringVar(&f.APIURL, "url", "", "API 地址")
		fs.StringVar(&f.APIKey, "key", "", "API Key")
		fs.StringVar(&f.Remark, "remark", "", "备注")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		switch command {
		case "add":
			return func(ctx context.Context) (json.RawMessage, error) { return c.Add(ctx, f) }, nil
		case "update":
			return func(ctx context.Context) (json.RawMessage, error) { return c.Update(ctx, f) }, nil
		default:
			return func(ctx context.Context) (json.RawMessage, error) { return c.Test(ctx, f) }, nil
		}

	case "delete", "enable", "disable":
		var p client.IDParam
		fs.StringVar(&p.ID, "id", "", "配置 ID")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		op := map[string]func(context.Context, client.IDParam) (json.RawMessage, error){
			"delete":  c.Delete,
			"enable":  c.Enable,
			"disable": c.Disable,
		}[command]
		return func(ctx context.Context) (json.RawMessage, error) { return op(ctx, p) }, nil
	}

	return nil, fmt.Errorf("未知命令: %s\n\n%s", command, usage)
}

// issueToken 使用配置的 security.jwt_secret 签发 Token
func issueToken(cfg *config.Config, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	fs.SetOutput(stderr)
	role := fs.String("role", auth.RoleTenantAdmin, "角色: TENANT_ADMIN 或 TENANT_MEMBER")
	subject := fs.String("subject", "cli", "Token 主体")
	ttl := fs.Duration("ttl", 24*time.Hour, "有效期")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if cfg.Security.JWTSecret == "" {
		fmt.Fprintln(stderr, "未配置 security.jwt_secret")
		return 1
	}

	tok, err := auth.NewManager(cfg.Security.JWTSecret, *ttl).IssueToken(*subject, *role)
	if err != nil {
		fmt.Fprintf(stderr, "签发 Token 失败: %v\n", err)
		return 1
	}

	fmt.Fprintln(stdout, tok)
	return 0
}
