// presence.go 在线注册表：userId 到连接的映射
package live

import "sync"

// Presence 在线注册表
// 同一用户重复上线时新连接覆盖旧条目
type Presence struct {
	mu      sync.Mutex
	clients map[string]*Client
}

// NewPresence 创建在线注册表
func NewPresence() *Presence {
	return &Presence{clients: make(map[string]*Client)}
}

// Announce 登记用户上线，返回被覆盖的旧连接（没有则为 nil）
func (p *Presence) Announce(userId string, client *Client) *Client {
	p.mu.Lock()
	defer p.mu.Unlock()
	old := p.clients[userId]
	p.clients[userId] = client
	if old == client {
		return nil
	}
	return old
}

// Lookup 查找在线用户的连接，不在线返回 nil
func (p *Presence) Lookup(userId string) *Client {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.clients[userId]
}

// Release 注销连接，返回是否真正移除了条目
// 只有条目仍指向该连接时才删除，避免旧连接断开时误删重连后的新条目
func (p *Presence) Release(client *Client) bool {
	if client.UserId == "" {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if current, ok := p.clients[client.UserId]; ok && current == client {
		delete(p.clients, client.UserId)
		return true
	}
	return false
}

// Snapshot 当前在线用户 id 列表
func (p *Presence) Snapshot() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	ids := make([]string, 0, len(p.clients))
	for id := range p.clients {
		ids = append(ids, id)
	}
	return ids
}

// Range 遍历所有在线连接，fn 返回 false 时停止
func (p *Presence) Range(fn func(userId string, client *Client) bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for id, c := range p.clients {
		if !fn(id, c) {
			return
		}
	}
}
