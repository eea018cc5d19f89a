package commands

import (
	"fmt"
	"runtime"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// handleStatus handles /status: bot uptime plus host CPU and memory.
func (h *Handler) handleStatus(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	uptime := time.Since(h.started).Round(time.Second)

	cpuValue := "n/a"
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		cpuValue = fmt.Sprintf("%.1f%%", percents[0])
	}

	memValue := "n/a"
	if vm, err := mem.VirtualMemory(); err == nil {
		memValue = fmt.Sprintf("%.1f%% of %.1f GB", vm.UsedPercent, float64(vm.Total)/(1<<30))
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	embed := &discordgo.MessageEmbed{
		Title: "📊 Bot Status",
		Color: 0x2B2D31,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Uptime", Value: uptime.String(), Inline: true},
			{Name: "Guilds", Value: fmt.Sprintf("%d", len(s.State.Guilds)), Inline: true},
			{Name: "Goroutines", Value: fmt.Sprintf("%d", runtime.NumGoroutine()), Inline: true},
			{Name: "Host CPU", Value: cpuValue, Inline: true},
			{Name: "Host Memory", Value: memValue, Inline: true},
			{Name: "Heap", Value: fmt.Sprintf("%.1f MB", float64(ms.HeapAlloc)/(1<<20)), Inline: true},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}

	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
}
